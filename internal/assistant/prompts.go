package assistant

const transcriptPrompt = `Extract the recipe from the following cooking video transcript. ` +
	`Return a single, clean JSON object with exactly these keys: "title" (string), ` +
	`"ingredients" (array of strings, one ingredient with its quantity per item), and ` +
	`"instructions" (array of strings, in cooking order). If the transcript does not ` +
	`describe a recipe, use null for "title" and empty arrays. The JSON response should ` +
	`be clean and not contain any markdown formatting (e.g., ` + "```json" + `).

Transcript: `

const textImportPrompt = `Extract recipe information from the following text and return it as a JSON object with this structure:
{
  "title": "Recipe title",
  "description": "Brief description",
  "ingredients": [{"name": "ingredient name", "amount": "quantity", "unit": "unit"}],
  "steps": [{"order": 1, "instruction": "step instruction"}],
  "cookingTime": 30,
  "servings": 4,
  "difficulty": "easy|medium|hard",
  "cuisine": "cuisine type"
}
cookingTime is in minutes. The JSON response should be clean and not contain any markdown formatting.
Text: `

const suggestPrompt = `Suggest up to 5 dishes that can be cooked mainly with the ingredients listed below. ` +
	`Return a JSON array of strings, each string being a dish name followed by a one-sentence ` +
	`description, ordered from best to weakest match. The JSON response should be clean and ` +
	`not contain any markdown formatting.

Ingredients: `

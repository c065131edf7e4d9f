package extract

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"recipebox/internal/recipe"
)

const ldJSONType = "application/ld+json"

// StructuredData reads schema.org Recipe objects from JSON-LD script blocks.
type StructuredData struct{}

func (StructuredData) Name() string { return "structured-data" }

func (StructuredData) Extract(doc *Document) Result {
	for i, script := range findAll(doc.Root, "script") {
		if !isLDJSON(attr(script, "type")) {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(scriptBody(script)), &v); err != nil {
			log.Warn().Err(err).Int("block", i).Msg("skipping malformed JSON-LD block")
			continue
		}
		obj := findRecipe(v, 0)
		if obj == nil {
			continue
		}
		return Matched(draftFromLD(obj, doc))
	}
	return NoMatch()
}

func isLDJSON(typ string) bool {
	if typ == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(typ)
	if err != nil {
		mt, _, _ = strings.Cut(typ, ";")
	}
	return strings.EqualFold(strings.TrimSpace(mt), ldJSONType)
}

func scriptBody(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

const maxLDDepth = 8

// findRecipe searches a decoded JSON-LD value for the first Recipe object:
// directly, inside sequences, or inside an @graph.
func findRecipe(v any, depth int) map[string]any {
	if depth > maxLDDepth {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		if isRecipeType(t["@type"]) {
			return t
		}
		if g, ok := t["@graph"]; ok {
			return findRecipe(g, depth+1)
		}
	case []any:
		for _, item := range t {
			if r := findRecipe(item, depth+1); r != nil {
				return r
			}
		}
	}
	return nil
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return isRecipeName(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && isRecipeName(s) {
				return true
			}
		}
	}
	return false
}

func isRecipeName(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "http://schema.org/"), "https://schema.org/")
	return s == "Recipe"
}

func draftFromLD(obj map[string]any, doc *Document) *recipe.Draft {
	d := recipe.NewDraft()
	if name, ok := obj["name"].(string); ok {
		d.Title = recipe.StringPtr(cleanText(name))
	}
	if desc, ok := obj["description"].(string); ok {
		d.Description = cleanText(desc)
	}
	d.Ingredients = cleanAll(stringList(obj["recipeIngredient"]))
	d.Instructions = cleanAll(flattenInstructions(obj["recipeInstructions"], 0))
	d.CookingTime = cookingMinutes(obj)
	d.Servings = servings(obj["recipeYield"])
	d.ImageURL = doc.Resolve(imageURL(obj["image"], 0))
	return d
}

// stringList accepts a string or a sequence of strings.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// flattenInstructions turns recipeInstructions into ordered lines. It accepts
// a single string, a sequence of strings, HowToStep objects and HowToSection
// objects (whose itemListElement is flattened in place).
func flattenInstructions(v any, depth int) []string {
	if depth > maxLDDepth {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flattenInstructions(item, depth+1)...)
		}
		return out
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return flattenInstructions(items, depth+1)
		}
		if text, ok := t["text"].(string); ok && strings.TrimSpace(text) != "" {
			return []string{text}
		}
		if name, ok := t["name"].(string); ok {
			return []string{name}
		}
	}
	return nil
}

// cookingMinutes reads totalTime, falling back to prepTime + cookTime.
func cookingMinutes(obj map[string]any) int {
	if s, ok := obj["totalTime"].(string); ok {
		if d, ok := parseDuration(s); ok {
			return minutes(d)
		}
	}
	var sum int
	for _, key := range []string{"prepTime", "cookTime"} {
		if s, ok := obj[key].(string); ok {
			if d, ok := parseDuration(s); ok {
				sum += minutes(d)
			}
		}
	}
	return sum
}

// servings reads recipeYield, which may be a number, "4 servings", or a
// sequence of such values.
func servings(v any) int {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return int(t)
		}
	case string:
		if n, ok := leadingInt(t); ok {
			return n
		}
	case []any:
		for _, item := range t {
			if n := servings(item); n > 0 {
				return n
			}
		}
	}
	return 0
}

// imageURL reads image as a URL string, an ImageObject, or a sequence of either.
func imageURL(v any, depth int) string {
	if depth > maxLDDepth {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if u, ok := t["url"].(string); ok {
			return strings.TrimSpace(u)
		}
		if u, ok := t["contentUrl"].(string); ok {
			return strings.TrimSpace(u)
		}
	case []any:
		for _, item := range t {
			if u := imageURL(item, depth+1); u != "" {
				return u
			}
		}
	}
	return ""
}

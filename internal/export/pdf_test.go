package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/recipe"
)

func TestWritePDF(t *testing.T) {
	r := &recipe.Recipe{
		ID:          "1",
		Title:       "Crème brûlée",
		Description: "Custard with a burnt sugar top.",
		Ingredients: []recipe.Ingredient{{Name: "cream", Amount: "500", Unit: "ml"}, {Name: "sugar"}},
		Steps:       []recipe.Step{{Order: 1, Instruction: "Heat cream."}, {Order: 2, Instruction: "Bake."}},
		CookingTime: 60,
		Servings:    4,
		Difficulty:  "medium",
		SourceURL:   "https://example.com/creme",
	}
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 200)
}

func TestWritePDF_EmptyRecipe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, &recipe.Recipe{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, WritePDF(&buf, nil))
}

func TestMetaLine(t *testing.T) {
	assert.Equal(t, "30 min | serves 2 | easy | thai",
		metaLine(&recipe.Recipe{CookingTime: 30, Servings: 2, Difficulty: "easy", Cuisine: "thai"}))
	assert.Empty(t, metaLine(&recipe.Recipe{}))
}

func TestIngredientLine(t *testing.T) {
	assert.Equal(t, "2 cups flour", ingredientLine(recipe.Ingredient{Name: "flour", Amount: "2", Unit: "cups"}))
	assert.Equal(t, "salt", ingredientLine(recipe.Ingredient{Name: "salt"}))
}

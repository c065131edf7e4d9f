package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RenumbersSteps(t *testing.T) {
	r := &Recipe{Steps: []Step{
		{Order: 3, Instruction: "Serve"},
		{Order: 0, Instruction: "Garnish"},
		{Order: 1, Instruction: "Boil"},
		{Order: 2, Instruction: "  "},
		{Order: 2, Instruction: "Drain"},
	}}
	r.Normalize()

	assert.Equal(t, []Step{
		{Order: 1, Instruction: "Boil"},
		{Order: 2, Instruction: "Drain"},
		{Order: 3, Instruction: "Serve"},
		{Order: 4, Instruction: "Garnish"},
	}, r.Steps)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Tags)
	assert.NotNil(t, r.SavedBy)
}

func TestFromDraft(t *testing.T) {
	d := NewDraft()
	d.Title = StringPtr("  Toast ")
	d.Ingredients = []string{"1 slice bread"}
	d.Instructions = []string{"Toast the bread", "Butter it"}
	d.SourceURL = "https://example.com/toast"
	d.SourceType = SourceWeb

	r := FromDraft(d)
	assert.Equal(t, "Toast", r.Title)
	assert.Equal(t, []Ingredient{{Name: "1 slice bread"}}, r.Ingredients)
	assert.Equal(t, []Step{{Order: 1, Instruction: "Toast the bread"}, {Order: 2, Instruction: "Butter it"}}, r.Steps)
	assert.Equal(t, SourceWeb, r.SourceType)
}

func TestNotFoundDraft_DistinctFromEmpty(t *testing.T) {
	empty := NewDraft()
	sentinel := NotFoundDraft()

	assert.True(t, empty.IsEmpty())
	assert.True(t, sentinel.IsEmpty())
	assert.False(t, empty.NoRecipeFound)
	assert.True(t, sentinel.NoRecipeFound)
	assert.Equal(t, NoRecipeFoundMessage, sentinel.Message)

	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":null,"ingredients":[],"instructions":[]}`, string(b))
}

func TestRecipeUnmarshal_LowercasesFacets(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title":"Pho","cuisine":" Vietnamese ","difficulty":"Medium","steps":[{"order":1,"instruction":"Simmer"}]}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "Pho", r.Title)
	assert.Equal(t, "vietnamese", r.Cuisine)
	assert.Equal(t, "medium", r.Difficulty)
	assert.Equal(t, "Simmer", r.Steps[0].Instruction)
}

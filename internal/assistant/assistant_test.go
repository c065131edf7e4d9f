package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/recipe"
)

type fakeModel struct {
	reply      string
	err        error
	lastPrompt string
	deadline   bool
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func TestDraftFromTranscript(t *testing.T) {
	m := &fakeModel{reply: "```json\n{\"title\":\"Pancakes\",\"ingredients\":[\"2 cups flour\",\" \",\"1 egg\"],\"instructions\":[\"Mix\",\"Fry\"]}\n```"}
	a := New(m, time.Second)

	d, err := a.DraftFromTranscript(context.Background(), "today we make pancakes")
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", d.TitleText())
	assert.Equal(t, []string{"2 cups flour", "1 egg"}, d.Ingredients)
	assert.Equal(t, []string{"Mix", "Fry"}, d.Instructions)
	assert.Contains(t, m.lastPrompt, "today we make pancakes")
	assert.True(t, m.deadline)
}

func TestDraftFromTranscript_MalformedJSON(t *testing.T) {
	a := New(&fakeModel{reply: "Sorry, I could not find a recipe."}, 0)

	d, err := a.DraftFromTranscript(context.Background(), "no recipe here")
	require.NoError(t, err)
	assert.Nil(t, d.Title)
	assert.Empty(t, d.Ingredients)
	assert.NotNil(t, d.Ingredients)
	assert.Empty(t, d.Instructions)
	assert.False(t, d.NoRecipeFound)
}

func TestDraftFromTranscript_NullTitle(t *testing.T) {
	a := New(&fakeModel{reply: `{"title":null,"ingredients":[],"instructions":[]}`}, 0)

	d, err := a.DraftFromTranscript(context.Background(), "chatter")
	require.NoError(t, err)
	assert.Nil(t, d.Title)
	assert.True(t, d.IsEmpty())
}

func TestGenerate_WrapsModelError(t *testing.T) {
	a := New(&fakeModel{err: errors.New("quota exceeded")}, 0)

	_, err := a.DraftFromTranscript(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, recipe.ErrUpstreamService)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestComplete(t *testing.T) {
	m := &fakeModel{reply: "Hello!"}
	a := New(m, 0)

	out, err := a.Complete(context.Background(), "Say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out)
	assert.Equal(t, "Say hello", m.lastPrompt)
	assert.False(t, m.deadline)

	_, err = a.Complete(context.Background(), "   ")
	assert.ErrorIs(t, err, recipe.ErrMissingInput)
}

func TestRecipeFromText(t *testing.T) {
	reply := `Here you go: {"title":"Tomato Soup","description":"Simple","ingredients":[{"name":"tomato","amount":"4","unit":""}],` +
		`"steps":[{"order":2,"instruction":"Blend"},{"order":1,"instruction":"Boil"}],"cookingTime":25,"servings":2,"difficulty":"Easy","cuisine":"Italian"}`
	a := New(&fakeModel{reply: reply}, 0)

	r, err := a.RecipeFromText(context.Background(), "boil then blend tomatoes")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", r.Title)
	assert.Equal(t, recipe.SourceText, r.SourceType)
	assert.Equal(t, "easy", r.Difficulty)
	assert.Equal(t, "italian", r.Cuisine)
	require.Len(t, r.Steps, 2)
	assert.Equal(t, recipe.Step{Order: 1, Instruction: "Boil"}, r.Steps[0])
	assert.Equal(t, recipe.Step{Order: 2, Instruction: "Blend"}, r.Steps[1])
}

func TestRecipeFromText_Errors(t *testing.T) {
	a := New(&fakeModel{reply: "no json at all"}, 0)

	_, err := a.RecipeFromText(context.Background(), "")
	assert.ErrorIs(t, err, recipe.ErrMissingInput)

	_, err = a.RecipeFromText(context.Background(), "some text")
	assert.ErrorIs(t, err, recipe.ErrUpstreamService)

	a.Model = &fakeModel{reply: `{"title": 5`}
	_, err = a.RecipeFromText(context.Background(), "some text")
	assert.ErrorIs(t, err, recipe.ErrUpstreamService)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "json array",
			reply: "```json\n[\"Omelette: eggs and cheese\", \"Frittata: baked eggs\"]\n```",
			want:  []string{"Omelette: eggs and cheese", "Frittata: baked eggs"},
		},
		{
			name:  "bulleted lines",
			reply: "- Omelette\n* Frittata\n\n1. Shakshuka\n2) 5 spice eggs",
			want:  []string{"Omelette", "Frittata", "Shakshuka", "5 spice eggs"},
		},
		{
			name:  "empty reply",
			reply: "",
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(&fakeModel{reply: tt.reply}, 0)
			got, err := a.Suggest(context.Background(), "eggs, cheese")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest_MissingIngredients(t *testing.T) {
	m := &fakeModel{reply: "[]"}
	_, err := New(m, 0).Suggest(context.Background(), " ")
	assert.ErrorIs(t, err, recipe.ErrMissingInput)
	assert.Empty(t, m.lastPrompt)
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```", '{', '}'))
	assert.Equal(t, "", cleanJSON("nothing", '{', '}'))
	assert.Equal(t, "", cleanJSON("} reversed {", '{', '}'))
}

package recipe

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowToRecipe(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := row{
		ID:          42,
		Title:       "Pancakes",
		Description: "Fluffy",
		Ingredients: []byte(`[{"name":"flour","amount":"2","unit":"cups"},{"name":"egg"}]`),
		Steps:       []byte(`[{"order":1,"instruction":"Mix"},{"order":2,"instruction":"Fry"}]`),
		CookingTime: 20,
		Servings:    4,
		Difficulty:  "easy",
		SourceURL:   "https://example.com/pancakes",
		SourceType:  string(SourceWeb),
		Tags:        []byte(`["breakfast"]`),
		SavedBy:     []byte(`["public"]`),
		CreatedAt:   created,
	}

	got, err := r.toRecipe()
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "Pancakes", got.Title)
	assert.Equal(t, []Ingredient{{Name: "flour", Amount: "2", Unit: "cups"}, {Name: "egg"}}, got.Ingredients)
	assert.Equal(t, []Step{{Order: 1, Instruction: "Mix"}, {Order: 2, Instruction: "Fry"}}, got.Steps)
	assert.Equal(t, SourceWeb, got.SourceType)
	assert.Equal(t, []string{"breakfast"}, got.Tags)
	assert.Equal(t, []string{"public"}, got.SavedBy)
	assert.Equal(t, created, got.CreatedAt)
}

func TestRowToRecipe_BadJSON(t *testing.T) {
	valid := []byte(`[]`)
	tests := []struct {
		name string
		row  row
	}{
		{"ingredients", row{Ingredients: []byte(`{`), Steps: valid, Tags: valid, SavedBy: valid}},
		{"steps", row{Ingredients: valid, Steps: []byte(`"x"`), Tags: valid, SavedBy: valid}},
		{"tags", row{Ingredients: valid, Steps: valid, Tags: nil, SavedBy: valid}},
		{"saved_by", row{Ingredients: valid, Steps: valid, Tags: valid, SavedBy: []byte(`[1]`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.row.toRecipe()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestPostgresStore_GetNonNumericID(t *testing.T) {
	// Non-numeric ids never reach the database.
	s := &PostgresStore{}
	_, err := s.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Roundtrip(t *testing.T) {
	dsn := os.Getenv("RECIPEBOX_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RECIPEBOX_TEST_DATABASE_URL not set")
	}
	store, err := NewPostgresStore(dsn)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	in := &Recipe{
		Title:       "Soup",
		Ingredients: []Ingredient{{Name: "tomato", Amount: "4"}},
		Steps:       []Step{{Order: 1, Instruction: "Boil"}},
		SourceType:  SourceManual,
		SavedBy:     []string{"user-1"},
	}
	id, err := store.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, id, in.ID)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Title)
	assert.Equal(t, in.Ingredients, got.Ingredients)
	assert.Equal(t, in.Steps, got.Steps)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, []string{"user-1"}, got.SavedBy)

	list, err := store.List(ctx)
	require.NoError(t, err)
	var found bool
	for _, r := range list {
		if r.ID == id {
			found = true
		}
	}
	assert.True(t, found)

	_, err = store.Get(ctx, "999999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

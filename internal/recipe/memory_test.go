package recipe

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateGetList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, err := store.Create(ctx, &Recipe{Title: "Pancakes", Steps: []Step{{Instruction: "Mix"}}})
	require.NoError(t, err)
	id2, err := store.Create(ctx, &Recipe{Title: "Waffles"})
	require.NoError(t, err)

	assert.Equal(t, "1", id1)
	assert.Equal(t, "2", id2)

	got, err := store.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Title)
	assert.Equal(t, []Step{{Order: 1, Instruction: "Mix"}}, got.Steps)
	assert.False(t, got.CreatedAt.IsZero())

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pancakes", all[0].Title)
	assert.Equal(t, "Waffles", all[1].Title)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &Recipe{Title: "Soup", Tags: []string{"warm"}})
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	got.Tags[0] = "cold"
	got.Title = "Changed"

	again, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Soup", again.Title)
	assert.Equal(t, []string{"warm"}, again.Tags)
}

func TestMemoryStore_ConcurrentCreateYieldsDistinctIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 64
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.Create(ctx, &Recipe{Title: "Concurrent"})
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestMemoryStore_CreateHonoursCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, &Recipe{Title: "Never"})
	assert.ErrorIs(t, err, context.Canceled)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

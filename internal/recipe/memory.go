package recipe

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// MemoryStore keeps recipes for the lifetime of the process. Safe for
// concurrent access; ids come from a counter that only moves under the write lock.
type MemoryStore struct {
	mu      sync.RWMutex
	lastID  int64
	order   []string
	recipes map[string]*Recipe
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory recipe store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]*Recipe),
		now:     time.Now,
	}
}

// Create stores a copy of recipe under the next id.
func (s *MemoryStore) Create(ctx context.Context, recipe *Recipe) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	recipe.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	id := strconv.FormatInt(s.lastID, 10)
	recipe.ID = id
	recipe.CreatedAt = s.now().UTC()

	s.recipes[id] = recipe.Clone()
	s.order = append(s.order, id)
	return id, nil
}

// Get returns a copy of the recipe with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// List returns copies of all recipes in creation order.
func (s *MemoryStore) List(ctx context.Context) ([]*Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Recipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.recipes[id].Clone())
	}
	return out, nil
}

package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for recipe data operations.
type Store interface {
	// Create assigns a fresh identifier to recipe, persists it and returns the id.
	Create(ctx context.Context, recipe *Recipe) (string, error)
	// Get returns ErrNotFound when no recipe has the given id.
	Get(ctx context.Context, id string) (*Recipe, error)
	// List returns every recipe in creation order.
	List(ctx context.Context) ([]*Recipe, error)
}

// PostgresStore implements the Store interface for PostgreSQL. Identifiers
// come from the table's BIGSERIAL sequence, so concurrent inserts never collide.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create recipes table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS saved_recipes (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients JSONB NOT NULL DEFAULT '[]',
		steps JSONB NOT NULL DEFAULT '[]',
		cooking_time INTEGER NOT NULL DEFAULT 0,
		servings INTEGER NOT NULL DEFAULT 0,
		difficulty TEXT NOT NULL DEFAULT '',
		cuisine TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		image_path TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		source_type TEXT NOT NULL DEFAULT '',
		tags JSONB NOT NULL DEFAULT '[]',
		saved_by JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create saved_recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// row mirrors a saved_recipes row; JSONB columns are scanned as raw bytes.
type row struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Ingredients []byte    `db:"ingredients"`
	Steps       []byte    `db:"steps"`
	CookingTime int       `db:"cooking_time"`
	Servings    int       `db:"servings"`
	Difficulty  string    `db:"difficulty"`
	Cuisine     string    `db:"cuisine"`
	ImageURL    string    `db:"image_url"`
	ImagePath   string    `db:"image_path"`
	SourceURL   string    `db:"source_url"`
	SourceType  string    `db:"source_type"`
	Tags        []byte    `db:"tags"`
	SavedBy     []byte    `db:"saved_by"`
	CreatedAt   time.Time `db:"created_at"`
}

const selectColumns = "id, title, description, ingredients, steps, cooking_time, servings, difficulty, cuisine, image_url, image_path, source_url, source_type, tags, saved_by, created_at"

func (r row) toRecipe() (*Recipe, error) {
	out := &Recipe{
		ID:          strconv.FormatInt(r.ID, 10),
		Title:       r.Title,
		Description: r.Description,
		CookingTime: r.CookingTime,
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		Cuisine:     r.Cuisine,
		ImageURL:    r.ImageURL,
		ImagePath:   r.ImagePath,
		SourceURL:   r.SourceURL,
		SourceType:  SourceType(r.SourceType),
		CreatedAt:   r.CreatedAt,
	}
	if err := json.Unmarshal(r.Ingredients, &out.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(r.Steps, &out.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	if err := json.Unmarshal(r.Tags, &out.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(r.SavedBy, &out.SavedBy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saved_by: %w", err)
	}
	return out, nil
}

// Create inserts a recipe and returns the sequence-assigned id.
func (s *PostgresStore) Create(ctx context.Context, recipe *Recipe) (string, error) {
	recipe.Normalize()

	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(recipe.Steps)
	if err != nil {
		return "", fmt.Errorf("failed to marshal steps: %w", err)
	}
	tagsJSON, err := json.Marshal(recipe.Tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	savedByJSON, err := json.Marshal(recipe.SavedBy)
	if err != nil {
		return "", fmt.Errorf("failed to marshal saved_by: %w", err)
	}

	var id int64
	var createdAt time.Time
	err = s.db.QueryRowxContext(ctx,
		`INSERT INTO saved_recipes (title, description, ingredients, steps, cooking_time, servings, difficulty, cuisine, image_url, image_path, source_url, source_type, tags, saved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		recipe.Title,
		recipe.Description,
		ingredientsJSON,
		stepsJSON,
		recipe.CookingTime,
		recipe.Servings,
		recipe.Difficulty,
		recipe.Cuisine,
		recipe.ImageURL,
		recipe.ImagePath,
		recipe.SourceURL,
		string(recipe.SourceType),
		tagsJSON,
		savedByJSON,
	).Scan(&id, &createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to save recipe: %w", err)
	}

	recipe.ID = strconv.FormatInt(id, 10)
	recipe.CreatedAt = createdAt
	return recipe.ID, nil
}

// Get retrieves a recipe by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Recipe, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	var r row
	err = s.db.GetContext(ctx, &r, "SELECT "+selectColumns+" FROM saved_recipes WHERE id = $1", n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}
	return r.toRecipe()
}

// List retrieves every recipe ordered by id.
func (s *PostgresStore) List(ctx context.Context) ([]*Recipe, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT "+selectColumns+" FROM saved_recipes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*Recipe{}
	for rows.Next() {
		var r row
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		rec, err := r.toRecipe()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return recipes, nil
}

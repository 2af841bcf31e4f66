package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for recipe data operations.
type Store interface {
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	SaveRecipe(ctx context.Context, r *Recipe) error
	ListRecipes(ctx context.Context) ([]*Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		base_servings INTEGER NOT NULL,
		ingredients JSONB NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// GetRecipe retrieves a recipe by id. Returns (nil, nil) when no recipe
// exists with that id.
func (s *PostgresStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var r Recipe
	var ingredientsJSON []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, base_servings, ingredients FROM recipes WHERE id = $1", id).Scan(
		&r.ID,
		&r.Title,
		&r.BaseServings,
		&ingredientsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}

	return &r, nil
}

// SaveRecipe saves a recipe to the database, replacing any existing recipe
// with the same id.
func (s *PostgresStore) SaveRecipe(ctx context.Context, r *Recipe) error {
	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO recipes (id, title, base_servings, ingredients) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO UPDATE SET title = $2, base_servings = $3, ingredients = $4",
		r.ID,
		r.Title,
		r.BaseServings,
		ingredientsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	return nil
}

// ListRecipes retrieves every stored recipe.
func (s *PostgresStore) ListRecipes(ctx context.Context) ([]*Recipe, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT id, title, base_servings, ingredients FROM recipes ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*Recipe
	for rows.Next() {
		var r Recipe
		var ingredientsJSON []byte
		if err := rows.Scan(&r.ID, &r.Title, &r.BaseServings, &ingredientsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
		recipes = append(recipes, &r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return recipes, nil
}

// DeleteRecipe removes a recipe by id.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

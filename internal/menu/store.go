package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for menu data operations.
type Store interface {
	GetMenu(ctx context.Context, id string) (*Menu, error)
	SaveMenu(ctx context.Context, m *Menu) error
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS menus (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		assignments JSONB NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create menus table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// GetMenu retrieves a menu by id. Returns (nil, nil) when no menu exists
// with that id.
func (s *PostgresStore) GetMenu(ctx context.Context, id string) (*Menu, error) {
	var m Menu
	var assignmentsJSON []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, assignments FROM menus WHERE id = $1", id).Scan(
		&m.ID,
		&m.Name,
		&assignmentsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Menu not found
		}
		return nil, fmt.Errorf("failed to get menu by id: %w", err)
	}

	if err := json.Unmarshal(assignmentsJSON, &m.Assignments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignments: %w", err)
	}

	return &m, nil
}

// SaveMenu saves a menu to the database, replacing any existing menu with the
// same id.
func (s *PostgresStore) SaveMenu(ctx context.Context, m *Menu) error {
	assignmentsJSON, err := json.Marshal(m.Assignments)
	if err != nil {
		return fmt.Errorf("failed to marshal assignments: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO menus (id, name, assignments) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = $2, assignments = $3",
		m.ID,
		m.Name,
		assignmentsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}

	return nil
}

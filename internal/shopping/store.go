package shopping

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore implements the ListStore interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection.
// Deleting a list cascades to its items, and deleting an item cascades to
// its recipe links.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS shopping_lists (
		id TEXT PRIMARY KEY,
		menu_id TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create shopping_lists table: %w", err)
	}

	schema = `
	CREATE TABLE IF NOT EXISTS shopping_items (
		id TEXT PRIMARY KEY,
		list_id TEXT NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		unit TEXT NOT NULL,
		category TEXT NOT NULL,
		checked BOOLEAN NOT NULL DEFAULT FALSE,
		relevant_date TIMESTAMPTZ
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create shopping_items table: %w", err)
	}

	schema = `
	CREATE TABLE IF NOT EXISTS shopping_item_recipes (
		item_id TEXT NOT NULL REFERENCES shopping_items(id) ON DELETE CASCADE,
		recipe_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (item_id, recipe_id)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create shopping_item_recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// CreateList writes the list, its items, and their recipe links in one
// transaction.
func (s *PostgresStore) CreateList(ctx context.Context, list *ShoppingList) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO shopping_lists (id, menu_id, created_at) VALUES ($1, NULLIF($2, ''), $3)",
		list.ID,
		list.MenuID,
		list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}

	for i, item := range list.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shopping_items (id, list_id, position, name, quantity, unit, category, checked, relevant_date) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
			item.ID,
			list.ID,
			i,
			item.Name,
			item.Quantity,
			item.Unit,
			item.Category,
			item.Checked,
			item.RelevantDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shopping item: %w", err)
		}

		for j, recipeID := range item.RecipeIDs {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO shopping_item_recipes (item_id, recipe_id, position) VALUES ($1, $2, $3)",
				item.ID,
				recipeID,
				j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item recipe link: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list: %w", err)
	}
	return nil
}

// GetList retrieves a list with its items in insertion order. Returns
// (nil, nil) when no list exists with that id.
func (s *PostgresStore) GetList(ctx context.Context, id string) (*ShoppingList, error) {
	var list ShoppingList
	var menuID sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, menu_id, created_at FROM shopping_lists WHERE id = $1", id).Scan(
		&list.ID,
		&menuID,
		&list.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // List not found
		}
		return nil, fmt.Errorf("failed to get shopping list by id: %w", err)
	}
	list.MenuID = menuID.String

	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, list_id, name, quantity, unit, category, checked, relevant_date FROM shopping_items WHERE list_id = $1 ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping items: %w", err)
	}
	defer rows.Close()

	itemIndex := make(map[string]int)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		itemIndex[item.ID] = len(list.Items)
		list.Items = append(list.Items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	linkRows, err := s.db.QueryxContext(ctx,
		"SELECT r.item_id, r.recipe_id FROM shopping_item_recipes r JOIN shopping_items i ON i.id = r.item_id WHERE i.list_id = $1 ORDER BY r.item_id, r.position", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item recipe links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var itemID, recipeID string
		if err := linkRows.Scan(&itemID, &recipeID); err != nil {
			return nil, fmt.Errorf("failed to scan item recipe link: %w", err)
		}
		if i, ok := itemIndex[itemID]; ok {
			list.Items[i].RecipeIDs = append(list.Items[i].RecipeIDs, recipeID)
		}
	}
	if err = linkRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &list, nil
}

// DeleteList removes a list; items and links go with it via cascade.
func (s *PostgresStore) DeleteList(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM shopping_lists WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

// GetItem retrieves one item with its recipe links. Returns (nil, nil) when
// no item exists with that id.
func (s *PostgresStore) GetItem(ctx context.Context, itemID string) (*ShoppingItem, error) {
	row, err := s.db.QueryxContext(ctx,
		"SELECT id, list_id, name, quantity, unit, category, checked, relevant_date FROM shopping_items WHERE id = $1", itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	defer row.Close()

	if !row.Next() {
		if err := row.Err(); err != nil {
			return nil, fmt.Errorf("rows error: %w", err)
		}
		return nil, nil // Item not found
	}
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}

	linkRows, err := s.db.QueryxContext(ctx,
		"SELECT recipe_id FROM shopping_item_recipes WHERE item_id = $1 ORDER BY position", itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item recipe links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var recipeID string
		if err := linkRows.Scan(&recipeID); err != nil {
			return nil, fmt.Errorf("failed to scan item recipe link: %w", err)
		}
		item.RecipeIDs = append(item.RecipeIDs, recipeID)
	}
	if err = linkRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return item, nil
}

// AddItem appends an item to the end of its list, writing the item and its
// recipe links in one transaction.
func (s *PostgresStore) AddItem(ctx context.Context, item *ShoppingItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO shopping_items (id, list_id, position, name, quantity, unit, category, checked, relevant_date) VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM shopping_items WHERE list_id = $2), $3, $4, $5, $6, $7, $8)",
		item.ID,
		item.ListID,
		item.Name,
		item.Quantity,
		item.Unit,
		item.Category,
		item.Checked,
		item.RelevantDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item: %w", err)
	}

	for j, recipeID := range item.RecipeIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shopping_item_recipes (item_id, recipe_id, position) VALUES ($1, $2, $3)",
			item.ID,
			recipeID,
			j,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item recipe link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping item: %w", err)
	}
	return nil
}

// SetItemChecked updates an item's checked flag.
func (s *PostgresStore) SetItemChecked(ctx context.Context, itemID string, checked bool) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE shopping_items SET checked = $2 WHERE id = $1", itemID, checked); err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	return nil
}

// scanItem reads one shopping_items row.
func scanItem(rows *sqlx.Rows) (*ShoppingItem, error) {
	var item ShoppingItem
	var relevantDate sql.NullTime

	err := rows.Scan(
		&item.ID,
		&item.ListID,
		&item.Name,
		&item.Quantity,
		&item.Unit,
		&item.Category,
		&item.Checked,
		&relevantDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan shopping item row: %w", err)
	}
	if relevantDate.Valid {
		t := relevantDate.Time
		item.RelevantDate = &t
	}
	return &item, nil
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/brainbolt/backend/internal/models"
)

// Store loads catalog items from the items table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, choices, correct_index, difficulty, category
		 FROM items
		 ORDER BY difficulty, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Text, pq.Array(&it.Choices), &it.CorrectIndex, &it.Difficulty, &it.Category); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return New(items)
}

// SeedIfEmpty inserts items when the table has none. Existing rows are
// left untouched.
func (s *Store) SeedIfEmpty(ctx context.Context, items []models.Item) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, text, choices, correct_index, difficulty, category)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Text, pq.Array(it.Choices), it.CorrectIndex, it.Difficulty, it.Category,
		); err != nil {
			return 0, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(items), nil
}

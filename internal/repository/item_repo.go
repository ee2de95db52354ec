package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mestredagrelha/grelha/internal/models"
)

// ItemRepository handles item data access.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// List returns the registry in display order. Rows without a consumed
// count load as zero.
func (r *ItemRepository) List(ctx context.Context) (models.Registry, error) {
	query := `
		SELECT id, name, stock, sold, COALESCE(consumed, 0)
		FROM items
		ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var reg models.Registry
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Stock, &it.Sold, &it.Consumed); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		reg = append(reg, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return reg, nil
}

// Replace overwrites the stored registry with reg, keeping its order.
func (r *ItemRepository) Replace(ctx context.Context, tx *sql.Tx, reg models.Registry) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid registry: %w", err)
	}

	return withTx(ctx, r.db, tx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
			return fmt.Errorf("clearing items: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO items (id, name, position, stock, sold, consumed)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for pos, it := range reg {
			if _, err := stmt.ExecContext(ctx, it.ID, it.Name, pos, it.Stock, it.Sold, it.Consumed); err != nil {
				return fmt.Errorf("inserting item %s: %w", it.ID, err)
			}
		}
		return nil
	})
}

// Update writes the counters of a single existing item.
func (r *ItemRepository) Update(ctx context.Context, tx *sql.Tx, it models.Item) error {
	query := `
		UPDATE items
		SET name = ?, stock = ?, sold = ?, consumed = ?
		WHERE id = ?`

	res, err := getExecer(r.db, tx).ExecContext(ctx, query, it.Name, it.Stock, it.Sold, it.Consumed, it.ID)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", it.ID, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored items.
func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

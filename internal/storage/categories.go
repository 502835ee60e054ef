package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"splitbook/internal/core"
)

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, icon FROM categories WHERE id = ?`, id)
	return scanCategory(row, fmt.Sprintf("category %d", id))
}

func (r *SQLiteRepository) FindCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, icon FROM categories WHERE name = ? COLLATE NOCASE LIMIT 1`, name)
	return scanCategory(row, fmt.Sprintf("category %q", name))
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, icon FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows, "category")
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func scanCategory(row rowScanner, what string) (*core.Category, error) {
	var (
		c   core.Category
		typ string
	)
	err := row.Scan(&c.ID, &c.Name, &typ, &c.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}
	c.Type = core.TransactionKind(typ)
	return &c, nil
}

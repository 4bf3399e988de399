package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

const categoryColumns = `id, name, emoji, color, sort_order, is_active`

// SeedCategories upserts the given categories.
func (r *Repository) SeedCategories(ctx context.Context, categories []lumen.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO categories (`+categoryColumns+`)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  emoji=excluded.emoji,
  color=excluded.color,
  sort_order=excluded.sort_order,
  is_active=excluded.is_active
`)
	if err != nil {
		return fmt.Errorf("prepare category statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Emoji, c.Color, c.Order, boolToInt(c.IsActive)); err != nil {
			return fmt.Errorf("save category %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) ListActiveCategories(ctx context.Context) ([]lumen.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+categoryColumns+` FROM categories
WHERE is_active = 1
ORDER BY sort_order ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []lumen.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return categories, nil
}

func (r *Repository) GetCategory(ctx context.Context, id string) (lumen.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lumen.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return lumen.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func scanCategory(row rowScanner) (lumen.Category, error) {
	var c lumen.Category
	var active int
	if err := row.Scan(&c.ID, &c.Name, &c.Emoji, &c.Color, &c.Order, &active); err != nil {
		return lumen.Category{}, err
	}
	c.IsActive = active != 0
	return c, nil
}

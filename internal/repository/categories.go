package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/taskboard/internal/models"
)

// PostgresCategoryRepository stores categories in PostgreSQL.
type PostgresCategoryRepository struct {
	DB *sql.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository.
func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{DB: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO categories (item) VALUES ($1) RETURNING id`, c.Item,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", mapError(err))
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, item FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Item)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, item FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Item); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Delete removes the category. Tasks referencing it are removed by the
// ON DELETE CASCADE constraint.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

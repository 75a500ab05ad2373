package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/taskboard/internal/models"
	"github.com/google/uuid"
)

// PostgresTaskRepository stores tasks in PostgreSQL.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

const selectTasks = `
	SELECT t.id, t.task, t.description, t.criteria, t.status,
	       t.category_id, c.item, t.estimate,
	       t.owner_id, o.username, t.responsible_id, r.username,
	       t.created_at, t.updated_at
	  FROM tasks t
	  JOIN categories c ON c.id = t.category_id
	  JOIN users o ON o.id = t.owner_id
	  JOIN users r ON r.id = t.responsible_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var t models.Task
	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Criteria, &t.Status,
		&t.CategoryID, &t.CategoryItem, &t.Estimate,
		&t.OwnerID, &t.OwnerUsername, &t.ResponsibleID, &t.ResponsibleUsername,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts t. Unknown category or user references yield ErrReference,
// a negative estimate ErrCheck.
func (r *PostgresTaskRepository) Create(ctx context.Context, t *models.Task) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, task, description, criteria, status, category_id, estimate,
		                   owner_id, responsible_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Title, t.Description, t.Criteria, t.Status, t.CategoryID, t.Estimate,
		t.OwnerID, t.ResponsibleID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", mapError(err))
	}
	return nil
}

// GetByID fetches a task with its joined category and user names.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx, selectTasks+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

// List returns every task ordered by creation time.
func (r *PostgresTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, selectTasks+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update replaces the caller-writable fields and the modification time.
// Owner and creation time are not part of the statement.
func (r *PostgresTaskRepository) Update(ctx context.Context, t *models.Task) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tasks
		   SET task = $1, description = $2, criteria = $3, status = $4,
		       category_id = $5, estimate = $6, responsible_id = $7, updated_at = $8
		 WHERE id = $9`,
		t.Title, t.Description, t.Criteria, t.Status,
		t.CategoryID, t.Estimate, t.ResponsibleID, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", mapError(err))
	}
	return requireAffected(res)
}

// Delete removes the task with the given id.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res)
}

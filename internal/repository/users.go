package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/taskboard/internal/models"
)

// PostgresUserRepository stores users in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Create inserts u and sets its ID. A taken username yields ErrDuplicate
// and nothing is written.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		u.Username, u.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}
	return nil
}

// GetByID fetches the user with the given id or returns ErrNotFound.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// List returns all users ordered by id.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username, password FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update rewrites the username and password hash of u.
func (r *PostgresUserRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET username = $1, password = $2 WHERE id = $3`,
		u.Username, u.PasswordHash, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", mapError(err))
	}
	return requireAffected(res)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/taskboard/internal/models"
)

// PostgresProfileRepository stores profiles in PostgreSQL.
type PostgresProfileRepository struct {
	DB *sql.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

// Create inserts p and sets its ID. A second profile for the same user
// violates profiles_user_id_key and yields ErrDuplicate.
func (r *PostgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO profiles (user_id, img) VALUES ($1, $2) RETURNING id`,
		p.UserID, p.Img,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create profile: %w", mapError(err))
	}
	return nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, img FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Img)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, user_id, img FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Img); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update rewrites the avatar reference. The owning user is never changed.
func (r *PostgresProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE profiles SET img = $1 WHERE id = $2`, p.Img, p.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", mapError(err))
	}
	return requireAffected(res)
}

// Delete removes the profile with the given id.
func (r *PostgresProfileRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireAffected(res)
}

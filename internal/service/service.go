// Package service implements the resource controllers of the task board.
// Every operation receives the caller explicitly, consults the method table
// and the ownership policy, injects system-owned fields and delegates
// persistence to a repository.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated is returned when an operation needs a resolved caller.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the ownership policy denies a write.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrProfileExists is returned when the caller already owns a profile.
	ErrProfileExists = errors.New("profile already exists for this user")
)

// UserRepository defines the persistence operations on users.
type UserRepository interface {
	// Create inserts the user and assigns its ID; a taken username must
	// fail with repository.ErrDuplicate without writing anything.
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// ProfileRepository defines the persistence operations on profiles.
type ProfileRepository interface {
	// Create inserts the profile; a second profile for one user must fail
	// with repository.ErrDuplicate.
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the persistence operations on categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// TaskRepository defines the persistence operations on tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *models.Task) error
	// GetByID returns the task with its joined category and user names.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

func requireCaller(caller identity.Caller) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// disabledOp rejects an operation the resource never supports.
func disabledOp(r policy.Resource, method string) error {
	if err := policy.CheckMethod(r, method); err != nil {
		return err
	}
	return fmt.Errorf("%s %s: %w", method, r, errors.ErrUnsupported)
}

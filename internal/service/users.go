package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/atinyakov/taskboard/internal/auth"
	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/atinyakov/taskboard/internal/validator"
)

// usernamePattern accepts letters and digits of any script plus @ . + - _.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

const maxUsernameLen = 150

// RegisterInput is the caller-writable part of a new user.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserInput carries a replacement or partial change of the caller's
// own account. Nil fields are absent from the request.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UserService manages accounts.
type UserService struct {
	users UserRepository
	hash  func(string) (string, error)
}

// NewUserService constructs a UserService storing argon2id password hashes.
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users, hash: auth.HashPassword}
}

// Register creates an account. It is open to anonymous callers.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	errs := validator.New()
	username := strings.TrimSpace(in.Username)
	validateUsername(errs, username)
	errs.Required("password", in.Password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usernameTaken()
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	return u, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context, caller identity.Caller) ([]models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Self returns the caller's own account.
func (s *UserService) Self(ctx context.Context, caller identity.Caller) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateSelf replaces the caller's username and password; both are required.
func (s *UserService) UpdateSelf(ctx context.Context, caller identity.Caller, in UpdateUserInput) (*models.User, error) {
	return s.changeSelf(ctx, caller, in, false)
}

// PatchSelf changes only the fields present in in.
func (s *UserService) PatchSelf(ctx context.Context, caller identity.Caller, in UpdateUserInput) (*models.User, error) {
	return s.changeSelf(ctx, caller, in, true)
}

func (s *UserService) changeSelf(ctx context.Context, caller identity.Caller, in UpdateUserInput, partial bool) (*models.User, error) {
	u, err := s.Self(ctx, caller)
	if err != nil {
		return nil, err
	}

	errs := validator.New()
	if in.Username != nil || !partial {
		var username string
		if in.Username != nil {
			username = strings.TrimSpace(*in.Username)
		}
		if validateUsername(errs, username) {
			u.Username = username
		}
	}
	var password string
	if in.Password != nil || !partial {
		if in.Password != nil {
			password = *in.Password
		}
		errs.Required("password", password)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if password != "" {
		if u.PasswordHash, err = s.hash(password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, usernameTaken()
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func validateUsername(errs validator.Errors, username string) bool {
	if !errs.Required("username", username) || !errs.MaxLength("username", username, maxUsernameLen) {
		return false
	}
	if !usernamePattern.MatchString(username) {
		errs.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		return false
	}
	return true
}

func usernameTaken() error {
	errs := validator.New()
	errs.Add("username", "A user with that username already exists.")
	return errs
}

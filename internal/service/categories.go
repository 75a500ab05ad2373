package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/atinyakov/taskboard/internal/validator"
)

const maxCategoryItemLen = 100

// CategoryInput is the caller-writable part of a category.
type CategoryInput struct {
	Item string `json:"item"`
}

// CategoryService manages the shared category list. Categories have no
// owner; once created they can only be read.
type CategoryService struct {
	categories CategoryRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, caller identity.Caller, in CategoryInput) (*models.Category, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := policy.CheckMethod(policy.Categories, http.MethodPost); err != nil {
		return nil, err
	}

	item := strings.TrimSpace(in.Item)
	errs := validator.New()
	if errs.Required("item", item) {
		errs.MaxLength("item", item, maxCategoryItemLen)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	c := &models.Category{Item: item}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, caller identity.Caller, id int64) (*models.Category, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, caller identity.Caller) ([]models.Category, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.categories.List(ctx)
}

// Update is never permitted for categories.
func (s *CategoryService) Update(ctx context.Context, caller identity.Caller, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Categories, http.MethodPut)
}

// PartialUpdate is never permitted for categories.
func (s *CategoryService) PartialUpdate(ctx context.Context, caller identity.Caller, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Categories, http.MethodPatch)
}

// Delete is never permitted for categories over the API.
func (s *CategoryService) Delete(ctx context.Context, caller identity.Caller, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Categories, http.MethodDelete)
}

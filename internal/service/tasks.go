package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/atinyakov/taskboard/internal/validator"
	"github.com/google/uuid"
)

const (
	maxTaskTitleLen       = 100
	maxTaskDescriptionLen = 300
	maxTaskCriteriaLen    = 100
)

// TaskInput is the caller-writable part of a task. Owner is not among the
// fields: it is injected from the caller on create and kept on update.
type TaskInput struct {
	Task        string            `json:"task"`
	Description string            `json:"description"`
	Criteria    string            `json:"criteria"`
	Status      models.TaskStatus `json:"status"`
	Category    *int64            `json:"category"`
	Estimate    *int              `json:"estimate"`
	Responsible *int64            `json:"responsible"`
}

// TaskService manages tasks. Writes to an existing task are bound to its
// owner by the ownership policy.
type TaskService struct {
	tasks      TaskRepository
	categories CategoryRepository
	users      UserRepository
	now        func() time.Time
}

// NewTaskService constructs a TaskService. Category and user repositories
// are used to check the references a task points at.
func NewTaskService(tasks TaskRepository, categories CategoryRepository, users UserRepository) *TaskService {
	return &TaskService{tasks: tasks, categories: categories, users: users, now: time.Now}
}

// Create stores a new task owned by the caller, whatever owner the request
// may have named.
func (s *TaskService) Create(ctx context.Context, caller identity.Caller, in TaskInput) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := policy.CheckMethod(policy.Tasks, http.MethodPost); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.StatusNotStarted
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.Task{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(in.Task),
		Description:   strings.TrimSpace(in.Description),
		Criteria:      strings.TrimSpace(in.Criteria),
		Status:        in.Status,
		CategoryID:    *in.Category,
		Estimate:      *in.Estimate,
		ResponsibleID: *in.Responsible,
		OwnerID:       caller.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if policy.Decide(caller, http.MethodPost, t.OwnerID) != policy.Allow {
		return nil, ErrForbidden
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, writeError("create task", err)
	}
	return s.load(ctx, t.ID)
}

func (s *TaskService) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Decide(caller, http.MethodGet, t.OwnerID) != policy.Allow {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, caller identity.Caller) ([]models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.tasks.List(ctx)
}

// Update replaces the task when the caller owns it. Owner and creation time
// are carried over from the stored task; the modification time is renewed.
func (s *TaskService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, in TaskInput) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := policy.CheckMethod(policy.Tasks, http.MethodPut); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Decide(caller, http.MethodPut, existing.OwnerID) != policy.Allow {
		return nil, ErrForbidden
	}

	if in.Status == "" {
		in.Status = existing.Status
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	t := &models.Task{
		ID:            existing.ID,
		Title:         strings.TrimSpace(in.Task),
		Description:   strings.TrimSpace(in.Description),
		Criteria:      strings.TrimSpace(in.Criteria),
		Status:        in.Status,
		CategoryID:    *in.Category,
		Estimate:      *in.Estimate,
		ResponsibleID: *in.Responsible,
		OwnerID:       existing.OwnerID,
		CreatedAt:     existing.CreatedAt,
		UpdatedAt:     s.now(),
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, writeError("update task", err)
	}
	return s.load(ctx, id)
}

// Delete removes the task when the caller owns it.
func (s *TaskService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := policy.CheckMethod(policy.Tasks, http.MethodDelete); err != nil {
		return err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if policy.Decide(caller, http.MethodDelete, existing.OwnerID) != policy.Allow {
		return ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// PartialUpdate is never permitted for tasks, owners included. It is
// rejected before the task is looked up.
func (s *TaskService) PartialUpdate(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Tasks, http.MethodPatch)
}

func (s *TaskService) load(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskService) validate(ctx context.Context, in TaskInput) error {
	errs := validator.New()

	text := []struct {
		field, value string
		max          int
	}{
		{"task", in.Task, maxTaskTitleLen},
		{"description", in.Description, maxTaskDescriptionLen},
		{"criteria", in.Criteria, maxTaskCriteriaLen},
	}
	for _, f := range text {
		v := strings.TrimSpace(f.value)
		if errs.Required(f.field, v) {
			errs.MaxLength(f.field, v, f.max)
		}
	}

	if !in.Status.Valid() {
		errs.Add("status", fmt.Sprintf("%q is not a valid choice.", string(in.Status)))
	}

	switch {
	case in.Estimate == nil:
		errs.Add("estimate", "This field is required.")
	case *in.Estimate < 0:
		errs.Add("estimate", "Ensure this value is greater than or equal to 0.")
	case *in.Estimate > math.MaxInt32:
		errs.Add("estimate", estimateTooLarge)
	}

	if in.Category == nil {
		errs.Add("category", "This field is required.")
	} else if _, err := s.categories.GetByID(ctx, *in.Category); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		errs.Add("category", missingReference(*in.Category))
	}

	if in.Responsible == nil {
		errs.Add("responsible", "This field is required.")
	} else if _, err := s.users.GetByID(ctx, *in.Responsible); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		errs.Add("responsible", missingReference(*in.Responsible))
	}

	return errs.Err()
}

var estimateTooLarge = fmt.Sprintf("Ensure this value is less than or equal to %d.", math.MaxInt32)

func missingReference(id int64) string {
	return `Invalid pk "` + strconv.FormatInt(id, 10) + `" - object does not exist.`
}

// writeError maps constraint failures raised by the store, e.g. a category
// removed between validation and write, onto validation errors.
func writeError(op string, err error) error {
	errs := validator.New()
	switch {
	case errors.Is(err, repository.ErrReference):
		errs.Add("non_field_errors", "A referenced category or user does not exist.")
	case errors.Is(err, repository.ErrCheck):
		errs.Add("estimate", "Ensure this value is greater than or equal to 0.")
	case errors.Is(err, repository.ErrOutOfRange):
		errs.Add("estimate", estimateTooLarge)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	return errs
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var taskColumns = []string{
	"id", "task", "description", "criteria", "status",
	"category_id", "item", "estimate",
	"owner_id", "username", "responsible_id", "username",
	"created_at", "updated_at",
}

func sampleTask() *models.Task {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	return &models.Task{
		ID:            uuid.MustParse("6f1c2b9e-3d4a-4c5b-8e7f-9a0b1c2d3e4f"),
		Title:         "write docs",
		Description:   "api docs",
		Criteria:      "merged",
		Status:        models.StatusNotStarted,
		CategoryID:    2,
		Estimate:      3,
		OwnerID:       1,
		ResponsibleID: 4,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestTaskCreate(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	task := sampleTask()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WithArgs(task.ID, task.Title, task.Description, task.Criteria, task.Status, task.CategoryID,
			task.Estimate, task.OwnerID, task.ResponsibleID, task.CreatedAt, task.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "tasks_category_id_fkey"})

	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Create(context.Background(), task); !errors.Is(err, ErrReference) {
		t.Errorf("error = %v; want ErrReference", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTaskCreate_EstimateOutOfRange(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	task := sampleTask()
	task.Estimate = 3_000_000_000

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WillReturnError(&pq.Error{Code: "22003", Message: "integer out of range"})

	err := repo.Create(context.Background(), task)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error = %v; want ErrOutOfRange", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTaskGetByID(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	want := sampleTask()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.id = $1`)).
		WithArgs(want.ID).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(
			want.ID.String(), want.Title, want.Description, want.Criteria, "2",
			want.CategoryID, "docs", want.Estimate,
			want.OwnerID, "alice", want.ResponsibleID, "dave",
			want.CreatedAt, want.UpdatedAt,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.id = $1`)).
		WithArgs(want.ID).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Status != models.StatusInProgress {
		t.Errorf("got %+v", got)
	}
	if got.CategoryItem != "docs" || got.OwnerUsername != "alice" || got.ResponsibleUsername != "dave" {
		t.Errorf("joined fields = %q %q %q", got.CategoryItem, got.OwnerUsername, got.ResponsibleUsername)
	}

	if _, err := repo.GetByID(context.Background(), want.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task error = %v; want ErrNotFound", err)
	}
}

func TestTaskList(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	a := sampleTask()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.created_at, t.id`)).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(
			a.ID.String(), a.Title, a.Description, a.Criteria, "1",
			a.CategoryID, "docs", a.Estimate,
			a.OwnerID, "alice", a.ResponsibleID, "dave",
			a.CreatedAt, a.UpdatedAt,
		))

	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != a.Title {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestTaskUpdateDelete(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTaskRepository(db)
	task := sampleTask()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks`)).
		WithArgs(task.Title, task.Description, task.Criteria, task.Status,
			task.CategoryID, task.Estimate, task.ResponsibleID, task.UpdatedAt, task.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks`)).
		WillReturnError(&pq.Error{Code: "23514", Constraint: "tasks_estimate_check"})
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(task.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
		WithArgs(task.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Update(ctx, task); !errors.Is(err, ErrCheck) {
		t.Errorf("Update error = %v; want ErrCheck", err)
	}
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

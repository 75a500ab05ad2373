package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService defines the task operations required by TaskHandler.
type TaskService interface {
	Create(ctx context.Context, caller identity.Caller, in service.TaskInput) (*models.Task, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, caller identity.Caller) ([]models.Task, error)
	Update(ctx context.Context, caller identity.Caller, id uuid.UUID, in service.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) error
	PartialUpdate(ctx context.Context, caller identity.Caller, id uuid.UUID) error
}

// TaskHandler handles /tasks.
type TaskHandler struct {
	Service TaskService
	Log     *zap.Logger
}

type taskResponse struct {
	ID                  uuid.UUID `json:"id"`
	Task                string    `json:"task"`
	Description         string    `json:"description"`
	Criteria            string    `json:"criteria"`
	Status              string    `json:"status"`
	StatusName          string    `json:"status_name"`
	Category            int64     `json:"category"`
	CategoryItem        string    `json:"category_item"`
	Estimate            int       `json:"estimate"`
	Responsible         int64     `json:"responsible"`
	ResponsibleUsername string    `json:"responsible_username"`
	Owner               int64     `json:"owner"`
	OwnerUsername       string    `json:"owner_username"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
}

func newTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:                  t.ID,
		Task:                t.Title,
		Description:         t.Description,
		Criteria:            t.Criteria,
		Status:              string(t.Status),
		StatusName:          t.Status.Label(),
		Category:            t.CategoryID,
		CategoryItem:        t.CategoryItem,
		Estimate:            t.Estimate,
		Responsible:         t.ResponsibleID,
		ResponsibleUsername: t.ResponsibleUsername,
		Owner:               t.OwnerID,
		OwnerUsername:       t.OwnerUsername,
		CreatedAt:           formatTime(t.CreatedAt),
		UpdatedAt:           formatTime(t.UpdatedAt),
	}
}

// Create handles POST /tasks. Any owner named in the body is ignored.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Service.Create(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTaskResponse(t))
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	resp := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, newTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := h.Service.Get(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(t))
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var in service.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Service.Update(r.Context(), identity.FromContext(r.Context()), id, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(t))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PartialUpdate handles PATCH /tasks/{id}, which is always rejected.
func (h *TaskHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := uuid.Parse(chi.URLParam(r, "id"))
	if err := h.Service.PartialUpdate(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return uuid.Nil, false
	}
	return id, true
}

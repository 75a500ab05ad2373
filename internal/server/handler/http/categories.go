package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/service"
	"go.uber.org/zap"
)

// CategoryService defines the category operations required by CategoryHandler.
type CategoryService interface {
	Create(ctx context.Context, caller identity.Caller, in service.CategoryInput) (*models.Category, error)
	Get(ctx context.Context, caller identity.Caller, id int64) (*models.Category, error)
	List(ctx context.Context, caller identity.Caller) ([]models.Category, error)
	Update(ctx context.Context, caller identity.Caller, id int64) error
	PartialUpdate(ctx context.Context, caller identity.Caller, id int64) error
	Delete(ctx context.Context, caller identity.Caller, id int64) error
}

// CategoryHandler handles /categories.
type CategoryHandler struct {
	Service CategoryService
	Log     *zap.Logger
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.Create(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Get handles GET /categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Service.Get(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update handles PUT /categories/{id}, which is always rejected.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	runByID(w, r, h.Log, h.Service.Update)
}

// PartialUpdate handles PATCH /categories/{id}, which is always rejected.
func (h *CategoryHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	runByID(w, r, h.Log, h.Service.PartialUpdate)
}

// Delete handles DELETE /categories/{id}, which is always rejected.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	runByID(w, r, h.Log, h.Service.Delete)
}

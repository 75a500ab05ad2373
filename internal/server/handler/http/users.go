package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/service"
	"go.uber.org/zap"
)

// UserService defines the account operations required by UserHandler.
type UserService interface {
	// Register creates an account; it needs no caller.
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	List(ctx context.Context, caller identity.Caller) ([]models.User, error)
	Self(ctx context.Context, caller identity.Caller) (*models.User, error)
	UpdateSelf(ctx context.Context, caller identity.Caller, in service.UpdateUserInput) (*models.User, error)
	PatchSelf(ctx context.Context, caller identity.Caller, in service.UpdateUserInput) (*models.User, error)
}

// UserHandler handles registration and the caller's own account.
type UserHandler struct {
	Service UserService
	Log     *zap.Logger
}

// userResponse is the public view of an account. The credential is
// write-only and never rendered.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Self handles GET /users/self.
func (h *UserHandler) Self(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Self(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

// UpdateSelf handles PUT /users/self.
func (h *UserHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.Service.UpdateSelf)
}

// PatchSelf handles PATCH /users/self.
func (h *UserHandler) PatchSelf(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.Service.PatchSelf)
}

func (h *UserHandler) change(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, identity.Caller, service.UpdateUserInput) (*models.User, error),
) {
	var in service.UpdateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := apply(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/media"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/service"
	"go.uber.org/zap"
)

const (
	// maxUploadMemory is the part of a multipart body kept in memory; the
	// rest spills to temporary files.
	maxUploadMemory = 10 << 20
	// defaultMaxUpload caps a whole profile request body.
	defaultMaxUpload = 20 << 20
)

// ProfileService defines the profile operations required by ProfileHandler.
type ProfileService interface {
	Create(ctx context.Context, caller identity.Caller, in service.ProfileInput) (*models.Profile, error)
	Get(ctx context.Context, caller identity.Caller, id int64) (*models.Profile, error)
	List(ctx context.Context, caller identity.Caller) ([]models.Profile, error)
	Update(ctx context.Context, caller identity.Caller, id int64, in service.ProfileInput) (*models.Profile, error)
	PartialUpdate(ctx context.Context, caller identity.Caller, id int64) error
	Delete(ctx context.Context, caller identity.Caller, id int64) error
}

// ProfileHandler handles /profiles. Avatars arrive as the multipart file
// field "img"; a JSON body with "img": null clears the current one.
type ProfileHandler struct {
	Service ProfileService
	// MediaURL prefixes stored avatar paths in responses.
	MediaURL string
	// MaxUpload caps the request body in bytes; 0 means defaultMaxUpload.
	MaxUpload int64
	Log       *zap.Logger
}

type profileResponse struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_profile"`
	Img    *string `json:"img"`
}

func (h *ProfileHandler) render(p *models.Profile) profileResponse {
	resp := profileResponse{ID: p.ID, UserID: p.UserID}
	if p.Img != nil {
		url := strings.TrimSuffix(h.MediaURL, "/") + "/" + *p.Img
		resp.Img = &url
	}
	return resp
}

// Create handles POST /profiles.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, cleanup, ok := h.readInput(w, r)
	if !ok {
		return
	}
	defer cleanup()

	p, err := h.Service.Create(r.Context(), identity.FromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.render(p))
}

// List handles GET /profiles.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	resp := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		resp = append(resp, h.render(&profiles[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /profiles/{id}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Service.Get(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.render(p))
}

// Update handles PUT /profiles/{id}.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, cleanup, ok := h.readInput(w, r)
	if !ok {
		return
	}
	defer cleanup()

	p, err := h.Service.Update(r.Context(), identity.FromContext(r.Context()), id, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.render(p))
}

// PartialUpdate handles PATCH /profiles/{id}, which is always rejected.
func (h *ProfileHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	runByID(w, r, h.Log, h.Service.PartialUpdate)
}

// Delete handles DELETE /profiles/{id}, which is always rejected.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	runByID(w, r, h.Log, h.Service.Delete)
}

// readInput accepts either a multipart form carrying the "img" file or a
// JSON body. The returned cleanup releases the uploaded file.
func (h *ProfileHandler) readInput(w http.ResponseWriter, r *http.Request) (service.ProfileInput, func(), bool) {
	var in service.ProfileInput
	noop := func() {}

	limit := h.MaxUpload
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body struct {
			Img json.RawMessage `json:"img"`
		}
		if !decodeJSON(w, r, &body) {
			return in, noop, false
		}
		in.ClearAvatar = string(body.Img) == "null"
		return in, noop, true
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit))
			return in, noop, false
		}
		writeDetail(w, http.StatusBadRequest, "Multipart form parse error - "+err.Error())
		return in, noop, false
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	file, header, err := r.FormFile("img")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		in.ClearAvatar = r.MultipartForm.Value["img"] != nil && r.FormValue("img") == ""
		return in, cleanup, true
	case err != nil:
		cleanup()
		writeDetail(w, http.StatusBadRequest, "Multipart form parse error - "+err.Error())
		return in, noop, false
	}

	in.Avatar = &media.Upload{Filename: header.Filename, Body: file}
	return in, func() {
		_ = file.Close()
		cleanup()
	}, true
}

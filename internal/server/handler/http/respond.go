package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/atinyakov/taskboard/internal/service"
	"github.com/atinyakov/taskboard/internal/validator"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// timeLayout is the wire format of task timestamps.
const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON reads a JSON request body into v. Unknown fields, such as a
// client-supplied owner, are ignored. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

// writeError renders a service error. Errors the client cannot act on are
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		rejected *policy.MethodNotAllowedError
		invalid  validator.Errors
	)
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": rejected.Error()})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, invalid)
	case errors.Is(err, service.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, service.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, service.ErrProfileExists):
		writeDetail(w, http.StatusConflict, "Profile for this user already exists.")
	default:
		if log == nil {
			log = zap.NewNop()
		}
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the numeric {id} URL parameter. Identifiers that cannot
// exist are answered with 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

// runByID runs an operation on the {id} resource that answers with no body.
// The disabled verbs go through here: they are rejected by the service
// before the identifier is looked at, so a malformed one is passed as 0.
func runByID(
	w http.ResponseWriter,
	r *http.Request,
	log *zap.Logger,
	op func(context.Context, identity.Caller, int64) error,
) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := op(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		writeError(w, r, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

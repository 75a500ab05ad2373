// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/repository"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserLookup loads the account a verified token refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// BearerAuth is a middleware that resolves the caller of a request.
//
// It expects an "Authorization: Bearer <token>" header. The token is
// verified, the user it names is loaded and the resulting identity.Caller is
// stored in the request context for the handlers downstream. Requests
// without a header, with an invalid token or naming a deleted user are
// answered with 401 and never reach next.
func BearerAuth(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if header == "" {
				unauthorized(w, "Authentication credentials were not provided.")
				return
			}
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "Authorization header must contain two space-delimited values.")
				return
			}

			id, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				unauthorized(w, "Given token not valid for any token type.")
				return
			}

			u, err := users.GetByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					unauthorized(w, "User not found.")
					return
				}
				writeDetail(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := identity.WithCaller(r.Context(), identity.Caller{ID: u.ID, Username: u.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

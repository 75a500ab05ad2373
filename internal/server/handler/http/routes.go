// Package http provides HTTP routing and handlers for the task board API.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/taskboard/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups the resource handlers mounted by NewRouter.
type Handlers struct {
	Users      *UserHandler
	Profiles   *ProfileHandler
	Categories *CategoryHandler
	Tasks      *TaskHandler

	// Media serves uploaded files below MediaURL. Optional.
	Media    http.Handler
	MediaURL string

	// Store is probed by /health. Optional.
	Store Pinger
}

// NewRouter constructs and returns an HTTP handler that serves the task
// board API.
//
// Routes:
//
//	GET  /health                              → liveness and store reachability
//	POST /users/register                      → h.Users.Register (public)
//	GET  <MediaURL>*                          → h.Media (public)
//	GET  /users                               → h.Users.List
//	GET|PUT|PATCH /users/self                 → h.Users
//	GET|POST /profiles, /categories, /tasks   → list and create
//	GET|PUT|PATCH|DELETE /<resource>/{id}     → read, replace, partial update, delete
//
// Everything except the public routes runs behind auth. Verbs a resource
// never supports are still routed so that they are answered with the
// resource's rejection message rather than a bare 405.
//
// Middleware chain (applied in order):
//  1. RequestID, Recoverer
//  2. WithRequestLogging(logger)        - logs served requests
//  3. auth, on protected routes
//  4. AllowContentType(JSON, multipart) - rejects other request bodies
func NewRouter(h Handlers, auth func(http.Handler) http.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only JSON bodies and avatar uploads are accepted
	bodies := chiMiddleware.AllowContentType("application/json", "multipart/form-data")

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", health(h.Store))

	// Public endpoints
	r.With(bodies).Post("/users/register", h.Users.Register)
	if h.Media != nil {
		prefix := "/" + strings.Trim(h.MediaURL, "/") + "/"
		r.Method(http.MethodGet, prefix+"*", http.StripPrefix(prefix, h.Media))
	}

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(bodies)

		r.Get("/users", h.Users.List)
		r.Route("/users/self", func(r chi.Router) {
			r.Get("/", h.Users.Self)
			r.Put("/", h.Users.UpdateSelf)
			r.Patch("/", h.Users.PatchSelf)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.Profiles.List)
			r.Post("/", h.Profiles.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Profiles.Get)
				r.Put("/", h.Profiles.Update)
				r.Patch("/", h.Profiles.PartialUpdate)
				r.Delete("/", h.Profiles.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Categories.Get)
				r.Put("/", h.Categories.Update)
				r.Patch("/", h.Categories.PartialUpdate)
				r.Delete("/", h.Categories.Delete)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.Tasks.List)
			r.Post("/", h.Tasks.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Tasks.Get)
				r.Put("/", h.Tasks.Update)
				r.Patch("/", h.Tasks.PartialUpdate)
				r.Delete("/", h.Tasks.Delete)
			})
		})
	})

	return r
}

func health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

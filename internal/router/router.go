// Package router sets up all HTTP routes and middleware chains for the
// foidesk admin API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"foidesk/internal/handlers"
	"foidesk/internal/locale"
	"foidesk/internal/middleware"
)

// New creates the configured Chi router. limiter may be nil to disable
// rate limiting.
func New(admin *handlers.Admin, locales *locale.Provider, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Locale(locales))

	r.Get("/health", healthHandler)

	r.Route("/admin", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesIndex)
			r.Get("/new", admin.CategoryNew)
			r.Post("/", admin.CategoryCreate)
			r.Get("/{id}/edit", admin.CategoryEdit)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
		})

		r.Route("/headings", func(r chi.Router) {
			r.Get("/", admin.HeadingsList)
			r.Post("/", admin.HeadingCreate)
			r.Delete("/{id}", admin.HeadingDelete)
		})

		r.Route("/bodies", func(r chi.Router) {
			r.Post("/", admin.BodyCreate)
			r.Get("/{id}", admin.BodyShow)
			r.Put("/{id}/tags", admin.BodySetTags)
		})

		r.Post("/requests", admin.RequestCreate)
		r.Post("/requests/{id}/events", admin.RequestAddEvent)
		r.Post("/events/{id}/classifications", admin.EventClassify)

		r.Get("/league-table", admin.LeagueTable)
		r.Get("/request-game", admin.RequestGame)

		r.Post("/users", admin.UserCreate)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", admin.UserShow)
			r.Get("/activity", admin.UserActivity)
			r.Post("/bounce", admin.UserRecordBounce)
			r.Delete("/bounce", admin.UserClearBounce)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

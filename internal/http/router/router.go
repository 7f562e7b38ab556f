// Package router wires every HTTP route to its handler.
//
// Route table (all under /api, the prefix the browser client uses):
//
//	GET    /api/parent/list           → one page of parents
//	POST   /api/parent/add            → create a parent
//	PUT    /api/parent/update/{id}    → replace a parent's fields
//	DELETE /api/parent/delete/{id}    → delete a parent
//	GET    /api/student/list          → one page of students
//	POST   /api/student/add           → create a student
//	PUT    /api/student/update/{id}   → replace a student's fields
//	DELETE /api/student/delete/{id}   → delete a student
//	GET    /health                    → store reachability
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/school-records-api/internal/config"
	"github.com/aanand-mishra/school-records-api/internal/http/handlers/parent"
	"github.com/aanand-mishra/school-records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/school-records-api/internal/http/middleware"
	"github.com/aanand-mishra/school-records-api/internal/http/request"
	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/utils/response"
)

const healthTimeout = 2 * time.Second

// New builds the application's http.Handler.
func New(store storage.Storage, cfg *config.Config, log *slog.Logger) http.Handler {
	dec := request.NewDecoder(cfg.MaxBodyBytes)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", health(store))

	r.Route("/api", func(r chi.Router) {
		r.Route("/parent", func(r chi.Router) {
			r.Get("/list", parent.List(store))
			r.Post("/add", parent.New(store, dec))
			r.Put("/update/{id}", parent.Update(store, dec))
			r.Delete("/delete/{id}", parent.Delete(store))
		})

		r.Route("/student", func(r chi.Router) {
			r.Get("/list", student.List(store))
			r.Post("/add", student.New(store, dec))
			r.Put("/update/{id}", student.Update(store, dec))
			r.Delete("/delete/{id}", student.Delete(store))
		})
	})

	return r
}

func health(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			response.WriteJSON(w, http.StatusServiceUnavailable,
				response.GeneralError("Store unreachable", err))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}

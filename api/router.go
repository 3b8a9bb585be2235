package api

import (
	"net/http"
	"time"

	"maze-server/solve"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxBodyBytes = 1 << 20

// NewAPIRouter builds the /api router with middlewares and routes. clients
// may be nil when no websocket hub runs.
func NewAPIRouter(svc *solve.Service, clients ClientCounter) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: svc.Config().CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	mz := NewMazeHandler(svc)
	mh := NewMetricsHandler(svc, clients)
	r.Route("/v1", func(sub chi.Router) {
		// Health
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		sub.With(middleware.Timeout(searchTimeout(svc))).Group(mz.Routes)
		mh.Routes(sub)
	})

	return r
}

// searchTimeout bounds a whole request slightly above the search deadline.
func searchTimeout(svc *solve.Service) time.Duration {
	if d := svc.Config().SolveTimeout; d > 0 {
		return 2 * d
	}
	return time.Minute
}

// Package rest wires the five operation handlers into a chi router,
// grounded on the teacher's interfaces/http/rest/router.go (chi +
// health/readiness endpoints + a versioned /api/v1 route group).
package rest

import (
	"net/http"

	"github.com/danja/semem-go/interfaces/http/rest/handlers"
	"github.com/danja/semem-go/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router builds the engine's HTTP surface.
type Router struct {
	ops    *handlers.Operations
	logger *zap.Logger
}

// NewRouter wires the router's dependencies.
func NewRouter(ops *handlers.Operations, logger *zap.Logger) *Router {
	return &Router{ops: ops, logger: logger}
}

// Setup configures every route and returns the composed handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.CORS)

	r.Get("/health", rt.healthCheck)
	r.Get("/ready", rt.readinessCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tell", rt.ops.Tell)
		r.Post("/ask", rt.ops.Ask)
		r.Post("/augment", rt.ops.Augment)
		r.Post("/navigate", rt.ops.Navigate)
		r.Post("/iterate", rt.ops.Iterate)
		r.Get("/stats", rt.ops.Stats)
	})

	return r
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

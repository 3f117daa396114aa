// Package ops serves the operational endpoints: health, metrics and pprof.
package ops

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Health is the payload of GET /healthz
type Health struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Router is the ops HTTP handler
type Router struct {
	router  *chi.Mux
	metrics http.Handler
	started time.Time
}

// NewRouter builds the ops routes. metrics is usually metrics.Manager.Handler().
func NewRouter(metrics http.Handler) *Router {
	r := &Router{
		router:  chi.NewRouter(),
		metrics: metrics,
		started: time.Now(),
	}
	r.setupMiddleware()
	r.setupRoutes()
	return r
}

func (r *Router) setupMiddleware() {
	r.router.Use(middleware.Recoverer)
	r.router.Use(middleware.NoCache)
}

func (r *Router) setupRoutes() {
	r.router.Get("/healthz", r.handleHealth)
	if r.metrics != nil {
		r.router.Method(http.MethodGet, "/metrics", r.metrics)
	}

	r.router.Route("/debug/pprof", func(pr chi.Router) {
		pr.Get("/", pprof.Index)
		pr.Get("/cmdline", pprof.Cmdline)
		pr.Get("/profile", pprof.Profile)
		pr.Post("/symbol", pprof.Symbol)
		pr.Get("/symbol", pprof.Symbol)
		pr.Get("/trace", pprof.Trace)
		pr.Get("/{name}", func(w http.ResponseWriter, req *http.Request) {
			pprof.Handler(chi.URLParam(req, "name")).ServeHTTP(w, req)
		})
	})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status: "ok",
		Uptime: time.Since(r.started).Round(time.Second).String(),
	})
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

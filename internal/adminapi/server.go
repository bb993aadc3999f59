// Package adminapi exposes the operator-facing HTTP surface: health
// checks, Prometheus scraping, and a debug dump of live subscriptions.
// It is entirely separate from the OSC UDP control plane and carries no
// mixer semantics, grounded on the teacher's internal/api server.
package adminapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/x32emu/x32emu/internal/status"
)

// StatusSource exposes the transport loop's published subscription
// snapshot for /debug/subscribers. Satisfied by *status.Publisher; this
// package never touches the subscription registry or mixer state
// directly (SPEC_FULL.md §5).
type StatusSource interface {
	Load() status.Snapshot
}

// Server holds the admin HTTP router and its dependencies.
type Server struct {
	router    *chi.Mux
	startTime time.Time
	status    StatusSource
}

// NewServer builds the admin HTTP handler with every route mounted and
// reg registered as the Prometheus gatherer behind /metrics.
func NewServer(reg *prometheus.Registry, src StatusSource, startTime time.Time) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		startTime: startTime,
		status:    src,
	}

	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/debug/subscribers", s.handleDebugSubscribers)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleDebugSubscribers(w http.ResponseWriter, r *http.Request) {
	snap := s.status.Load()
	remotes := snap.LiveRemotes
	if remotes == nil {
		remotes = []string{}
	}
	meters := snap.Meters
	if meters == nil {
		meters = []status.MeterView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"xremote": remotes,
		"meters":  meters,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

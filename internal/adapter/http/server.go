package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateProvider exposes the current derived state and pipeline readiness.
type StateProvider interface {
	CheckReadiness(ctx context.Context) error
	Current() domain.DerivedState
}

// Server exposes health, readiness, metrics, and derived-view HTTP endpoints.
type Server struct {
	httpServer *http.Server
	state      StateProvider
	logger     *slog.Logger
}

// NewServer creates the HTTP server. Rendering collaborators read the derived
// state via /v1/state, run ad-hoc clustering via /v1/clusters, and subscribe
// to snapshot pushes via the hub's /v1/stream route.
func NewServer(addr string, state StateProvider, hub *Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		state:  state,
		logger: logger,
	}

	mux.Handle("/healthz", getOnly(http.HandlerFunc(s.handleHealth)))
	mux.Handle("/readyz", getOnly(handleReady(state)))
	mux.Handle("/metrics", getOnly(promhttp.Handler()))
	mux.Handle("/v1/state", getOnly(http.HandlerFunc(s.handleState)))
	mux.Handle("/v1/clusters", getOnly(http.HandlerFunc(s.handleClusters)))
	mux.Handle("/v1/stream", getOnly(hub))

	return s
}

// getOnly restricts a route to GET requests, matching the behavior of the
// "GET /path" ServeMux patterns introduced in Go 1.22 (which the local
// toolchain predates).
func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker StateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Current())
}

// handleClusters runs the cluster finder over the derived window that covers
// the requested span. Defaults: 24h window, 100 km, 2 quakes minimum.
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	windowHours, err := queryFloat(r, "window_hours", 24)
	if err != nil || windowHours <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid window_hours"})
		return
	}
	maxDistanceKm, err := queryFloat(r, "max_distance_km", 100)
	if err != nil || maxDistanceKm < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid max_distance_km"})
		return
	}
	minQuakes, err := queryInt(r, "min_quakes", 2)
	if err != nil || minQuakes < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid min_quakes"})
		return
	}

	events := s.windowFor(windowHours)
	clusters := domain.FindClusters(events, maxDistanceKm, minQuakes, s.logger)

	writeJSON(w, http.StatusOK, map[string]any{
		"window_hours": windowHours,
		"clusters":     clusters,
		"count":        len(clusters),
	})
}

// windowFor picks the smallest derived window covering the requested span.
func (s *Server) windowFor(hours float64) []domain.Event {
	state := s.state.Current()
	switch {
	case hours <= 1:
		return state.Short.Events1h
	case hours <= 24:
		return state.Short.Events24h
	case hours <= 7*24:
		return state.Medium.Events7d
	case hours <= 14*24:
		return state.Long.Events14d
	default:
		return state.Long.Events30d
	}
}

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

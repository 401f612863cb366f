package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"appcontroller/internal/diagnostics"
	"appcontroller/internal/reconciler"
	"appcontroller/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultReadHeaderTimeout is the timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown once the context is done.
	DefaultShutdownTimeout = 5 * time.Second
)

// StatusSource reports per-Application reconcile state and queue depth.
type StatusSource interface {
	GetAllStatuses() []reconciler.ReconcileStatus
	GetStatus(namespace, name string) (reconciler.ReconcileStatus, bool)
	GetQueueLength() int
	GetScheduledCount() int
}

// Server serves diagnostics, reconcile statuses, health and metrics.
type Server struct {
	address     string
	diagnostics *diagnostics.Diagnostics
	statuses    StatusSource
	gatherer    prometheus.Gatherer
	httpServer  *http.Server
}

// New creates a Server listening on address.
func New(address string, diag *diagnostics.Diagnostics, statuses StatusSource, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		address:     address,
		diagnostics: diag,
		statuses:    statuses,
		gatherer:    gatherer,
	}
	s.httpServer = &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	return s
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	r.Get("/", s.handleDiagnostics)
	r.Route("/statuses", func(r chi.Router) {
		r.Get("/", s.handleStatuses)
		r.Get("/{namespace}/{name}", s.handleStatus)
	})
	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info("HTTP", "Listening on %s", s.address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server on %s: %w", s.address, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	logging.Info("HTTP", "Server stopped")
	return nil
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.diagnostics.Snapshot()); err != nil {
		logging.Error("HTTP", err, "Failed to encode diagnostics")
	}
}

type statusList struct {
	Queued    int                          `json:"queued"`
	Scheduled int                          `json:"scheduled"`
	Items     []reconciler.ReconcileStatus `json:"items"`
}

func (s *Server) handleStatuses(w http.ResponseWriter, _ *http.Request) {
	items := s.statuses.GetAllStatuses()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Namespace != items[j].Namespace {
			return items[i].Namespace < items[j].Namespace
		}
		return items[i].Name < items[j].Name
	})
	writeJSON(w, http.StatusOK, statusList{
		Queued:    s.statuses.GetQueueLength(),
		Scheduled: s.statuses.GetScheduledCount(),
		Items:     items,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	namespace, name := chi.URLParam(r, "namespace"), chi.URLParam(r, "name")
	status, ok := s.statuses.GetStatus(namespace, name)
	if !ok {
		http.Error(w, fmt.Sprintf("no reconcile status for %s/%s", namespace, name), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("HTTP", err, "Failed to encode response")
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("healthy"))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Debug("HTTP", "%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

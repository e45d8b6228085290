package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-now/internal/domain"
	"github.com/couchcryptid/weather-now/internal/lookup"
	"github.com/couchcryptid/weather-now/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Widget is the lookup session the server drives.
type Widget interface {
	ReadinessChecker
	State() domain.State
	Query() string
	Start(ctx context.Context, query string) (*lookup.Pending, error)
	Replace(ctx context.Context, query string) (*lookup.Pending, error)
	Cancel() bool
}

// Server exposes the widget page and API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	widget     Widget
	presenter  *render.Presenter
	logger     *slog.Logger
	// apiWait bounds how long POST /api/lookup waits for a result.
	apiWait time.Duration
}

// NewServer creates an HTTP server with widget, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, widget Widget, presenter *render.Presenter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		widget:    widget,
		presenter: presenter,
		logger:    logger,
		apiWait:   20 * time.Second,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /lookup", s.handleFormLookup)
	mux.HandleFunc("POST /lookup/cancel", s.handleFormCancel)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/lookup", s.handleAPILookup)
	mux.HandleFunc("DELETE /api/lookup", s.handleAPICancel)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(widget))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
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

func (s *Server) view() render.View {
	return s.presenter.View(s.widget.State(), s.widget.Query())
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteHTML(w, s.view()); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleFormLookup starts a lookup and redirects back to the page, which
// refreshes itself while loading. Lookups outlive the form request.
func (s *Server) handleFormLookup(w http.ResponseWriter, r *http.Request) {
	city := r.PostFormValue("city")
	if _, err := s.widget.Start(context.WithoutCancel(r.Context()), city); err != nil {
		s.logger.Debug("form lookup ignored", "city", city, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFormCancel(w http.ResponseWriter, r *http.Request) {
	s.widget.Cancel()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

type lookupRequest struct {
	City string `json:"city"`
	// Replace supersedes a lookup already loading instead of answering 409.
	Replace bool `json:"replace"`
}

// handleAPILookup starts a lookup and waits for it. If the wait times out
// it answers 202 with the Loading view.
func (s *Server) handleAPILookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	start := s.widget.Start
	if req.Replace {
		start = s.widget.Replace
	}
	p, err := start(context.WithoutCancel(r.Context()), req.City)
	switch {
	case errors.Is(err, lookup.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, lookup.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.apiWait)
	defer cancel()

	if _, err := p.Wait(ctx); err != nil && !errors.Is(err, lookup.ErrSuperseded) {
		writeJSON(w, http.StatusAccepted, s.view())
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

// handleAPICancel aborts the loading lookup and answers with the Idle view,
// or 409 when nothing is loading.
func (s *Server) handleAPICancel(w http.ResponseWriter, _ *http.Request) {
	if !s.widget.Cancel() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no lookup in progress"})
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

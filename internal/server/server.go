// Package server serves a built website directory for local preview.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/observability"
)

// ShutdownTimeout bounds graceful shutdown after the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server serves static files from a website directory.
type Server struct {
	Addr    string
	Dir     string
	router  *chi.Mux
	server  *http.Server
	metrics *prom.Registry
}

// Option customizes a Server.
type Option func(*Server)

// WithMetrics exposes reg on /metrics and counts served file requests on it
// as docsite_http_requests_total.
func WithMetrics(reg *prom.Registry) Option {
	return func(s *Server) { s.metrics = reg }
}

// New creates a server for dir on fsys.
func New(fsys afero.Fs, addr, dir string, opts ...Option) *Server {
	s := &Server{
		Addr:   addr,
		Dir:    dir,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	for _, opt := range opts {
		opt(s)
	}

	var files http.Handler = http.FileServer(afero.NewHttpFs(fsys).Dir(dir))
	s.router.Get("/health", handleHealth)
	if s.metrics != nil {
		requests := prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "http_requests_total",
			Help:      "Preview server file requests by status code and method",
		}, []string{"code", "method"})
		s.metrics.MustRegister(requests)
		files = promhttp.InstrumentHandlerCounter(requests, files)
		s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	s.router.Handle("/*", files)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the root handler (for tests).
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		observability.InfoContext(ctx, "Serving website", logfields.Addr(s.Addr), logfields.Path(s.Dir))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// requestLogger logs each request at debug level through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			slog.String("method", r.Method),
			logfields.Path(r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}

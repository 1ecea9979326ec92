package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/sensor-data-ingest/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestor turns an upload into a finalized table. Ingest records and
// publishes the upload; Parse only builds the table for a query.
type Ingestor interface {
	Ingest(ctx context.Context, up domain.Upload) (domain.Result, error)
	Parse(ctx context.Context, up domain.Upload) (domain.Result, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	Site           domain.Site
}

// Server exposes the upload API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	ingestor   Ingestor
	logger     *slog.Logger
	maxUpload  int64
	site       domain.Site
}

// NewServer creates an HTTP server with the probe routes and the /api/v1 upload routes.
func NewServer(opts Options, ingestor Ingestor, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ingestor:  ingestor,
		logger:    logger,
		maxUpload: opts.MaxUploadBytes,
		site:      opts.Site,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/uploads", s.handleUpload)
		r.Post("/uploads/filter", s.handleFilter)
		r.Get("/sample", s.handleSample)
		r.Get("/site", s.handleSite)
	})

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

// Package server exposes the linkgraph pipeline over HTTP.
//
// Every request is resolved against one document root fixed at startup;
// clients name focus documents by root-relative path. Routes:
//
//	POST   /api/graph                build (and optionally lay out) a graph
//	GET    /api/graph/ws             the same, streaming build progress
//	POST   /api/layout               lay out a client-supplied graph
//	DELETE /api/cache                drop all parsed documents
//	POST   /api/cache/invalidate     drop parsed entries of given paths
//	GET    /api/cache/stats          parsed-file cache size
//	DELETE /api/positions/{graphID}  forget saved positions
//	GET    /metrics                  Prometheus metrics
//	GET    /healthz                  liveness
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// Server defaults.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 8 << 20
)

// Config configures a Server.
type Config struct {
	Addr            string
	Root            string
	ShutdownTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	logger   *log.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	validate *validator.Validate
	router   chi.Router
}

// New creates a server around runner. The runner's root is set to
// cfg.Root. Metrics are collected in a private registry; call
// Metrics().Install to feed it pipeline and cache events.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	runner.Root = cfg.Root

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		logger:   logger.With("component", "server"),
		metrics:  NewMetrics(reg),
		registry: reg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.router = s.routes()
	return s
}

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Get("/graph/ws", s.handleGraphWS)
		r.Post("/layout", s.handleLayout)
		r.Delete("/cache", s.handleClearCache)
		r.Post("/cache/invalidate", s.handleInvalidate)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/positions/{graphID}", s.handleClearPositions)
	})
	return r
}

// observe logs each request and counts it by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.metrics.observeRequest(r.Method, route, code)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", code,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "root", s.cfg.Root)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/streamkit/flow"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/resilience"
	"github.com/kbukum/streamkit/server/endpoint"
	"github.com/kbukum/streamkit/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a flow.Runner over HTTP. Gin serves the routes; the
// middleware stack wraps the whole handler and h2c adds cleartext HTTP/2.
type Server struct {
	httpServer *http.Server
	config     Config
	log        *logger.Logger
	listener   net.Listener
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	service  string
	version  string
	checkers []observability.HealthChecker
}

// WithService names the service reported by /health.
func WithService(name, version string) Option {
	return func(o *options) {
		o.service = name
		o.version = version
	}
}

// WithHealthChecker adds a component to /health.
func WithHealthChecker(c observability.HealthChecker) Option {
	return func(o *options) { o.checkers = append(o.checkers, c) }
}

// New creates a Server that runs pipelines with runner. cfg should already
// have its defaults applied. A nil log uses the registered server logger.
func New(cfg Config, runner *flow.Runner, log *logger.Logger, opts ...Option) *Server {
	o := options{service: "streamkit"}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.Get(logger.ComponentServer)
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	h := &runHandler{
		runner: runner,
		cfg:    cfg,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "runs",
			MaxConcurrent: cfg.MaxConcurrentRuns,
			MaxWait:       cfg.QueueWait,
			OnReject: func(name string, err error) {
				log.Warn("Run rejected", logger.MergeWithError(logger.Fields("bulkhead", name), err))
			},
		}),
	}
	v1 := engine.Group("/v1")
	v1.POST("/runs", h.create)
	v1.POST("/runs/stream", h.stream)
	v1.GET("/operations", h.operations)

	checkers := append([]observability.HealthChecker{pipelineCheck(runner)}, o.checkers...)
	engine.GET("/health", endpoint.Health(o.service, o.version, checkers...))
	engine.GET("/version", endpoint.Version())

	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.BodySizeLimit(cfg.MaxBodySize),
		middleware.RequestLogger(log),
	)(engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           h2c.NewHandler(handler, h2s),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		config: cfg,
		log:    log,
	}
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr":        listener.Addr().String(),
		"run_timeout": s.config.RunTimeout.String(),
	})
	return nil
}

// Stop gracefully shuts down the server, waiting for in-flight runs up to a
// 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// pipelineCheck reports the runner healthy when a one-value pipeline builds
// and stops by itself.
func pipelineCheck(runner *flow.Runner) observability.HealthChecker {
	probe := []flow.Descriptor{
		flow.D(flow.OpCountUp.String(), nil),
		flow.D(flow.OpTakeFor.String(), map[string]any{"count": 1}),
	}
	return observability.Probe{
		Name:    "pipeline",
		Timeout: time.Second,
		Slow:    500 * time.Millisecond,
		Fn: func(ctx context.Context) (map[string]string, error) {
			report, err := runner.WithCapture(0).Run(ctx, probe)
			if err != nil {
				return nil, err
			}
			return map[string]string{"generated": strconv.Itoa(report.Generated)}, nil
		},
	}
}

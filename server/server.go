package server

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/recq/logger"
	"github.com/kbukum/recq/observability"
	"github.com/kbukum/recq/plan"
	"github.com/kbukum/recq/resilience"
	"github.com/kbukum/recq/version"
)

const shutdownTimeout = 5 * time.Second

// Server serves the query API.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	handler  http.Handler
	exec     *plan.Executor
	tls      *tls.Config
	bulkhead *resilience.Bulkhead
	limiter  *resilience.RateLimiter
	tokens   *TokenService
	log      *logger.Logger
	checkers []observability.HealthChecker
	version  string
	execOpts []plan.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithHealthCheckers adds components reported by /health.
func WithHealthCheckers(checkers ...observability.HealthChecker) Option {
	return func(s *Server) { s.checkers = append(s.checkers, checkers...) }
}

// WithExecutorOptions passes options to the plan executor, e.g. metrics.
func WithExecutorOptions(opts ...plan.Option) Option {
	return func(s *Server) { s.execOpts = append(s.execOpts, opts...) }
}

// New builds a Server with its routes and middleware. cfg should already
// have defaults applied.
func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, version: version.Get().Version}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("server")

	execOpts := append([]plan.Option{
		plan.WithLogger(s.log),
		plan.WithMaxRecords(cfg.MaxRecords),
	}, s.execOpts...)
	s.exec = plan.NewExecutor(execOpts...)

	s.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "query executor",
		MaxConcurrent: cfg.MaxConcurrent,
		MaxWait:       cfg.QueueTimeout,
		OnReject: func(name string) {
			s.log.Warn("query rejected", logger.Fields("bulkhead", name, "max_concurrent", cfg.MaxConcurrent))
		},
	})
	if cfg.RateLimit > 0 {
		s.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: cfg.RateLimit, Burst: cfg.RateBurst})
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	s.tls = tlsCfg

	if cfg.Auth.Enabled {
		tokens, err := NewTokenService(cfg.Auth)
		if err != nil {
			return nil, err
		}
		s.tokens = tokens
	}

	if s.log.Zerolog().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s.engine = gin.New()
	s.engine.Use(Recovery(s.log), RequestID(), BodySizeLimit(cfg.MaxBodyBytes), RequestLogger(s.log))
	s.routes()

	// h2c lets HTTP/2 clients talk to the API without TLS.
	s.handler = h2c.NewHandler(s.engine, &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          cfg.IdleTimeout,
	})
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/v1")
	if s.limiter != nil {
		v1.Use(RateLimit(s.limiter))
	}
	if s.tokens != nil {
		v1.Use(Auth(s.tokens))
	}
	v1.POST("/query", s.query)
	v1.POST("/plans/validate", s.validate)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener. With TLS configured the listener
// is wrapped and HTTP/2 is negotiated over ALPN.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		TLSConfig:    s.tls,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.tls != nil {
			errCh <- httpServer.ServeTLS(listener, "", "")
			return
		}
		errCh <- httpServer.Serve(listener)
	}()
	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String(), "tls", s.tls != nil))

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Package server exposes the dashboard's JSON-over-HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/backtest-dashboard/internal/config"
	"github.com/yourusername/backtest-dashboard/internal/logger"
	"github.com/yourusername/backtest-dashboard/internal/metrics"
	"github.com/yourusername/backtest-dashboard/internal/repository"
	"github.com/yourusername/backtest-dashboard/internal/universe"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg      *config.Config
	logger   *logrus.Logger
	audit    *logger.AuditLogger
	repos    *repository.Repositories
	selector *universe.Selector
	applier  *universe.Applier
	db       DatabasePinger
	server   *http.Server
	mu       sync.RWMutex
	ready    bool
}

// New creates the dashboard server
func New(
	cfg *config.Config,
	log *logrus.Logger,
	repos *repository.Repositories,
	selector *universe.Selector,
	applier *universe.Applier,
	db DatabasePinger,
) *Server {
	return &Server{
		cfg:      cfg,
		logger:   log,
		audit:    logger.NewAuditLogger(log),
		repos:    repos,
		selector: selector,
		applier:  applier,
		db:       db,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler builds the full route table wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/universe/select", s.handleSelect)
	mux.HandleFunc("/api/universe/apply", s.handleApply)

	mux.HandleFunc("/api/symbols", s.handleSymbols)
	mux.HandleFunc("/api/strategy-summary", s.handleStrategySummary)
	mux.HandleFunc("/api/strategy-sessions", s.handleStrategySessions)
	mux.HandleFunc("/api/optimization-session", s.handleOptimizationSession)
	mux.HandleFunc("/api/ohlcv", s.handleOHLCV)
	mux.HandleFunc("/api/lot-history", s.handleLotHistory)

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)

	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	limiter := rate.NewLimiter(
		rate.Limit(s.cfg.Server.RateLimitPerSecond),
		s.cfg.Server.RateLimitBurst,
	)

	var handler http.Handler = mux
	handler = rateLimit(limiter)(handler)
	handler = requestLogging(s.logger)(handler)
	handler = cors(s.cfg.Server.CORSAllowOrigin)(handler)
	handler = requestID(handler)

	return handler
}

// Start runs the server until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.cfg.Server.Port).Info("Dashboard server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.SetReady(true)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.SetReady(false)
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Dashboard server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

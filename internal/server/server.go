// SPDX-License-Identifier: MIT

// Package server exposes the decomposers over HTTP.
//
// Routes:
//   - POST /v1/reduce  JSON document.Input  -> document.Result
//   - GET  /healthz    liveness
//   - GET  /metrics    Prometheus text format
//
// Every response carries an X-Request-ID. /v1 routes are rate limited with a
// token bucket; refused requests get 429.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/rankreduce/internal/config"
	"github.com/katalvlaran/rankreduce/internal/metrics"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

// Server is the HTTP front end. Decomposers are built once from the config
// and shared by all requests.
type Server struct {
	cfg         config.Config
	router      *mux.Router
	limiter     *rate.Limiter
	metrics     *metrics.Registry
	log         zerolog.Logger
	decomposers map[rankreduce.Kind]rankreduce.Decomposer
}

// New builds a Server from a validated config. A nil registry gets a fresh one.
func New(cfg config.Config, reg *metrics.Registry, logger zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	s := &Server{
		cfg:         cfg,
		router:      mux.NewRouter(),
		limiter:     newLimiter(cfg.Server.RatePerSecond, cfg.Server.Burst),
		metrics:     reg,
		log:         logger.With().Str("component", "server").Logger(),
		decomposers: make(map[rankreduce.Kind]rankreduce.Decomposer, 3),
	}
	for _, kind := range []rankreduce.Kind{rankreduce.KindEZI, rankreduce.KindEZN, rankreduce.KindSAP} {
		d, err := cfg.Decomposer(kind, logger)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.decomposers[kind] = d
	}
	s.setupRoutes()

	return s, nil
}

// newLimiter returns an unlimited limiter for a zero rate.
func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond == 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/reduce", s.handleReduce).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Server.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	return nil
}

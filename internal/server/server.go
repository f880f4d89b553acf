// SPDX-License-Identifier: MIT
//
// Package server exposes the trim operation over HTTP: a WAV upload goes in,
// the trimmed window comes back as an audio/wav attachment.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"audiotrim/internal/config"
	applog "audiotrim/internal/log"
	"audiotrim/internal/metrics"
	"audiotrim/internal/presets"
	"audiotrim/internal/transport"

	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

// Options carries the optional collaborators of a Server.
type Options struct {
	Presets   *presets.Store                // Nil disables the preset routes.
	Events    transport.Transport           // Receives a TrimEvent per trim request.
	WebSocket *transport.WebSocketTransport // Mounted on /ws when set.
	Metrics   *metrics.Metrics              // A fresh registry is created when nil.
}

// Server is the HTTP front end of the trim engine.
type Server struct {
	cfg       config.ServerConfig
	presets   *presets.Store
	events    transport.Transport
	metrics   *metrics.Metrics
	mux       *http.ServeMux
	server    *http.Server
	startTime time.Time
	newID     func() string
}

// New wires the routes. It does not start listening.
func New(cfg config.ServerConfig, opts Options) *Server {
	s := &Server{
		cfg:       cfg,
		presets:   opts.Presets,
		events:    opts.Events,
		metrics:   opts.Metrics,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
		newID:     uuid.NewString,
	}
	if s.metrics == nil {
		s.metrics = metrics.NewMetrics()
	}
	if opts.WebSocket != nil {
		opts.WebSocket.OnClientsChanged(func(n int) {
			s.metrics.EventClients.Set(float64(n))
		})
	}

	s.setupRoutes(opts.WebSocket)

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(ws *transport.WebSocketTransport) {
	s.mux.HandleFunc("GET /healthz", s.withMetrics("/healthz", s.handleHealth))

	s.mux.HandleFunc("POST /api/trim", s.withMetrics("/api/trim", s.handleTrim))
	s.mux.HandleFunc("POST /api/info", s.withMetrics("/api/info", s.handleInfo))

	s.mux.HandleFunc("GET /api/presets", s.withMetrics("/api/presets", s.handleListPresets))
	s.mux.HandleFunc("GET /api/presets/{name}", s.withMetrics("/api/presets/{name}", s.handleGetPreset))
	s.mux.HandleFunc("PUT /api/presets/{name}", s.withMetrics("/api/presets/{name}", s.handlePutPreset))
	s.mux.HandleFunc("DELETE /api/presets/{name}", s.withMetrics("/api/presets/{name}", s.handleDeletePreset))

	if ws != nil {
		s.mux.Handle("GET /ws", ws)
	}

	// Prometheus metrics endpoint (not instrumented itself)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		applog.Infof("server: listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	applog.Infof("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// withMetrics wraps an HTTP handler with metrics collection.
func (s *Server) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		elapsed := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(rw.statusCode), elapsed.Seconds())
		applog.Debugf("server: %s %s -> %d (%s)", r.Method, r.URL.Path, rw.statusCode, elapsed)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

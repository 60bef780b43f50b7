// Package httpserver wires the operator-facing HTTP surface: the
// Prometheus /metrics endpoint and the dashboard WebSocket upgrade
// endpoint, grounded on the teacher's internal/interfaces/http server
// (mux router, timeouts, graceful listen).
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sawpanic/perpscreener/internal/eventbus/ws"
)

// Config holds the server's bind address and timeouts.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig matches the teacher's default server timeouts.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server serves /metrics and the /ws dashboard upgrade endpoint.
type Server struct {
	cfg    Config
	router *mux.Router
	server *http.Server
	log    zerolog.Logger
}

// New builds a Server, mounting sink's WebSocket handler alongside
// the Prometheus metrics handler.
func New(cfg Config, sink *ws.Sink, log zerolog.Logger) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	sink.RegisterRoutes(router)

	return &Server{
		cfg:    cfg,
		router: router,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log.With().Str("component", "httpserver").Logger(),
	}
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

package mockserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ashureev/adrin-chat/internal/config"
	"github.com/ashureev/adrin-chat/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server serves the development chat endpoint at /ws.
type Server struct {
	cfg      config.MockServerConfig
	sessions *SessionManager
	router   chi.Router
	logger   *slog.Logger
}

// New builds the router. newResponder may be nil.
func New(cfg config.MockServerConfig, newResponder func() Responder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	sessions := NewSessionManager(logger)
	ws := NewHandler(sessions, cfg.AllowedOrigins, newResponder, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/ws", ws.ServeHTTP)

	return &Server{
		cfg:      cfg,
		sessions: sessions,
		router:   r,
		logger:   logger,
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the open chat sessions.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Run listens on the configured address until ctx is cancelled, then drops
// open sessions and shuts down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Mock server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down gracefully...")
	// Hijacked WebSocket connections are not tracked by Shutdown.
	dropped := s.sessions.CloseAll("server shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Mock server stopped", "sessions_dropped", dropped)
	return nil
}

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/isdmx/codeexec/config"
	"github.com/isdmx/codeexec/language"
	"github.com/isdmx/codeexec/sandbox"
)

// requestGrace is added to the sandbox timeout for the work done outside
// the container.
const requestGrace = 60 * time.Second

// NewRouter builds the chi router for the execution API.
func NewRouter(h *Handler, logger *zap.Logger, maxBodyBytes int64, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(CORS())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/languages", h.Languages)

	r.Group(func(r chi.Router) {
		r.Use(BodyLimit(maxBodyBytes))
		r.Use(chiMiddleware.Timeout(requestTimeout))
		r.Post("/execute", h.Execute)
	})

	return r
}

// Server owns the HTTP listener.
type Server struct {
	logger *zap.Logger
	server *http.Server
}

// New creates the HTTP server from configuration.
func New(cfg *config.Config, logger *zap.Logger, executor sandbox.SandboxExecutor, registry *language.Registry) *Server {
	requestTimeout := cfg.GetTimeout() + requestGrace
	handler := NewHandler(logger, executor, registry)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           NewRouter(handler, logger, cfg.Server.MaxBodyBytes, requestTimeout),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      requestTimeout + 10*time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listener and serves in the background. Bind errors are
// returned so startup fails fast.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

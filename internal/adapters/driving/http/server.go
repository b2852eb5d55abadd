package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebhookVerifier checks storage callback signatures
type WebhookVerifier interface {
	VerifyWebhook(body []byte, signature string) bool
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	logger     *slog.Logger

	// Services
	authService driving.AuthService
	docService  driving.DocumentService
	chatService driving.ChatService
	webhooks    WebhookVerifier

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)

	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	// MaxUploadBytes bounds the multipart body before plan limits apply
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		Version:         "dev",
		AllowedOrigins:  []string{"*"},
		MaxUploadBytes:  16 << 20,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Services groups the driving ports the server exposes
type Services struct {
	Auth      driving.AuthService
	Documents driving.DocumentService
	Chat      driving.ChatService
	Webhooks  WebhookVerifier
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, svc Services, db Pinger, redisClient Pinger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultConfig().MaxUploadBytes
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger.With("component", "http"),
		authService:     svc.Auth,
		docService:      svc.Documents,
		chatService:     svc.Chat,
		webhooks:        svc.Webhooks,
		db:              db,
		redisClient:     redisClient,
		maxUploadBytes:  maxUpload,
		shutdownTimeout: shutdownTimeout,
	}
	s.setupRoutes()

	recovery := NewRecoveryMiddleware(s.logger)
	logging := NewLoggingMiddleware(s.logger)
	cors := NewCORSMiddleware(cfg.AllowedOrigins)
	s.handler = recovery.Handler(logging.Handler(cors.Handler(s.router)))

	// WriteTimeout stays unset: answer streams outlive any fixed deadline.
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger.json", s.handleSwagger)

	// Storage callback (signed, no bearer)
	s.router.HandleFunc("POST /api/v1/uploads/complete", s.handleUploadComplete)

	// Identity
	s.router.Handle("POST /api/v1/auth/callback", authed(s.handleAuthCallback))
	s.router.Handle("GET /api/v1/me", authed(s.handleMe))
	s.router.Handle("GET /api/v1/me/plan", authed(s.handlePlan))

	// Documents
	s.router.Handle("POST /api/v1/documents", authed(s.handleUpload))
	s.router.Handle("GET /api/v1/documents", authed(s.handleListDocuments))
	s.router.Handle("GET /api/v1/uploads/{key}/document", authed(s.handleGetDocumentByKey))
	s.router.Handle("GET /api/v1/documents/{id}", authed(s.handleGetDocument))
	s.router.Handle("GET /api/v1/documents/{id}/status", authed(s.handleDocumentStatus))
	s.router.Handle("DELETE /api/v1/documents/{id}", authed(s.handleDeleteDocument))

	// Chat
	s.router.Handle("GET /api/v1/documents/{id}/messages", authed(s.handleListMessages))
	s.router.Handle("POST /api/v1/messages", authed(s.handleSendMessage))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

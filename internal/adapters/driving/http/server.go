// Package http exposes the answering and document management services
// over a JSON/SSE HTTP API.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portico-labs/portico/internal/core/ports/driven"
	"github.com/portico-labs/portico/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	answerService driving.AnswerService
	ingestService driving.IngestService
	authService   driving.AuthService

	// Infrastructure
	taskQueue driven.TaskQueue
	db        Pinger // PostgreSQL health check (optional)
	embedding driven.EmbeddingService
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	answerService driving.AnswerService,
	ingestService driving.IngestService,
	authService driving.AuthService,
	taskQueue driven.TaskQueue,
	db Pinger, // can be nil
	embedding driven.EmbeddingService,
) *Server {
	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		answerService: answerService,
		ingestService: ingestService,
		authService:   authService,
		taskQueue:     taskQueue,
		db:            db,
		embedding:     embedding,
	}

	handler := NewRecoveryMiddleware().Handler(
		NewLoggingMiddleware().Handler(
			NewCORSMiddleware(cfg.AllowedOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: /ask streams for as long as generation runs
		IdleTimeout: 60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoint (public, exchanges the admin key for a token)
	s.router.HandleFunc("POST /api/v1/auth/token", s.handleToken)

	// Answering endpoints (public, this is the visitor-facing surface)
	s.router.HandleFunc("POST /api/v1/ask", s.handleAsk)
	s.router.HandleFunc("POST /api/v1/retrieve", s.handleRetrieve)

	// Collection stats (public, read-only)
	s.router.HandleFunc("GET /api/v1/collection/stats", s.handleStats)

	// Document management (admin-only)
	s.router.Handle("POST /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUploadDocument)))
	s.router.Handle("GET /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDocuments)))
	s.router.Handle("GET /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocument)))
	s.router.Handle("DELETE /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteDocument)))

	// Background re-ingestion (admin-only)
	s.router.Handle("POST /api/v1/documents/reingest",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleReingestAll)))
	s.router.Handle("POST /api/v1/documents/{id}/reingest",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleReingestDocument)))

	// Collection reset (admin-only, destructive)
	s.router.Handle("POST /api/v1/collection/reset",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleReset)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

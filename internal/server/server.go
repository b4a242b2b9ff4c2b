// Package server provides the HTTP API for Kotae.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/browse"
	"github.com/kotae-ai/kotae/internal/chat"
	"github.com/kotae-ai/kotae/internal/config"
	"github.com/kotae-ai/kotae/internal/ingest"
	"github.com/kotae-ai/kotae/internal/storage"
	"github.com/kotae-ai/kotae/internal/vector"
)

// Server is the HTTP server for the Kotae API.
type Server struct {
	chat     *chat.Service
	ingester *ingest.Ingester
	browser  *browse.Browser
	ledger   storage.Ledger
	store    vector.Store
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	chatSvc *chat.Service,
	ingester *ingest.Ingester,
	browser *browse.Browser,
	ledger storage.Ledger,
	store vector.Store,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:     chatSvc,
		ingester: ingester,
		browser:  browser,
		ledger:   ledger,
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/api/ingest", s.handleIngest)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/browse", s.handleBrowse)
	r.Post("/predict", s.handlePredict)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

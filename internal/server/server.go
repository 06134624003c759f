// Package server provides the HTTP API for findword.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/config"
	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/internal/keyword"
	"github.com/hyperjump/findword/internal/search"
)

// Server is the HTTP server for the findword API.
type Server struct {
	engine *search.Engine
	loader *ingest.Loader
	index  keyword.WordIndex
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies. The loader and
// index may be nil; the reload endpoint and index stats are then disabled.
func NewServer(
	engine *search.Engine,
	loader *ingest.Loader,
	idx keyword.WordIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine: engine,
		loader: loader,
		index:  idx,
		config: cfg,
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/v1/words", s.handleListWords)
	r.Get("/api/v1/words/{word}", s.handleGetWord)
	r.Get("/api/v1/words/{word}/similar", s.handleSimilar)
	r.Post("/api/v1/similar", s.handleBatchSimilar)
	r.Post("/api/v1/compare", s.handleCompare)
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/reload", s.handleReload)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
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

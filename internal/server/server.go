// Package server provides the HTTP API for bibfind.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/bibfind/internal/config"
	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/indexer"
	"github.com/hyperjump/bibfind/internal/search"
	"go.uber.org/zap"
)

// Server is the HTTP server for the bibfind API. The index is swapped
// atomically after a rebuild, so searches always run against a consistent
// snapshot.
type Server struct {
	mu      sync.RWMutex
	idx     index.Index
	engine  *search.Engine
	indexer *indexer.Indexer
	cfg     *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. idx may be nil;
// searches respond with 503 until a rebuild installs one.
func NewServer(idx index.Index, ixr *indexer.Indexer, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		indexer: ixr,
		cfg:     cfg,
		logger:  logger,
	}
	s.setIndex(idx)
	return s
}

// setIndex installs a new index and engine, closing the previous index.
func (s *Server) setIndex(idx index.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil {
		if err := s.idx.Close(); err != nil {
			s.logger.Warn("failed to close previous index", zap.Error(err))
		}
	}
	s.idx = idx
	if idx != nil {
		s.engine = search.NewEngine(idx)
	} else {
		s.engine = nil
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/rebuild", s.handleRebuild)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()
	s.logger.Info("starting server", zap.String("addr", addr))
	return srv.ListenAndServe()
}

// Stop gracefully shuts down the server and closes the index.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	s.setIndex(nil)
	return err
}

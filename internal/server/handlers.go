package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hyperjump/bibfind/internal/index"
	"github.com/hyperjump/bibfind/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(query.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))

	// Hold the read lock across the search so a concurrent rebuild cannot
	// close the index underneath us.
	s.mu.RLock()
	engine := s.engine
	if engine == nil {
		s.mu.RUnlock()
		s.respondError(w, http.StatusServiceUnavailable, "index not ready")
		return
	}
	response, err := engine.Search(r.Context(), &query)
	s.mu.RUnlock()
	if err != nil {
		var parseErr *index.QueryParseError
		if errors.As(err, &parseErr) {
			s.respondError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("rebuild requested")
	n, err := s.indexer.Rebuild(r.Context())
	if err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx, err := index.OpenAt(s.cfg.Index.Dir)
	if err != nil {
		s.logger.Error("failed to open rebuilt index", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.setIndex(idx)
	s.logger.Info("index rebuilt", zap.Int("documents", n))
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "rebuilt",
		"documents": n,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var docCount uint64
	s.mu.RLock()
	if s.idx != nil {
		if c, err := s.idx.DocCount(); err == nil {
			docCount = c
		}
	}
	ready := s.engine != nil
	s.mu.RUnlock()

	resp := map[string]interface{}{
		"ready":      ready,
		"documents":  docCount,
		"bib_path":   s.cfg.Bib.Path,
		"index_path": s.cfg.Index.Dir,
	}
	if diskBytes, err := index.DiskUsage(s.cfg.Index.Dir); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/ingest"
	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/internal/store"
)

// wordResponse is the API shape of a corpus entry. Embeddings stay
// internal; clients see the word, its POS flags, and the derived labels.
type wordResponse struct {
	Word          string   `json:"word"`
	IsNoun        bool     `json:"is_noun"`
	IsVerb        bool     `json:"is_verb"`
	PartsOfSpeech []string `json:"parts_of_speech"`
}

func newWordResponse(e *models.WordEntry) wordResponse {
	return wordResponse{
		Word:          e.Word,
		IsNoun:        e.IsNoun,
		IsVerb:        e.IsVerb,
		PartsOfSpeech: e.PartsOfSpeech(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "words": stats.Total})
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.defaultLimit())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if limit < 1 || limit > models.MaxLimit {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", models.MaxLimit))
		return
	}
	if offset < 0 {
		s.respondError(w, http.StatusBadRequest, "offset cannot be negative")
		return
	}
	entries, err := s.engine.List(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list words failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]wordResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newWordResponse(e))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	entry, err := s.engine.Lookup(r.Context(), word)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newWordResponse(entry))
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.defaultLimit())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	minSim, err := queryFloat(r, "min_similarity", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid min_similarity")
		return
	}
	query := &models.SimilarityQuery{
		Word:          chi.URLParam(r, "word"),
		POS:           models.POS(r.URL.Query().Get("pos")),
		Limit:         limit,
		MinSimilarity: minSim,
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("similar request", zap.String("word", query.Word), zap.Int("limit", query.Limit))
	results, err := s.engine.FindSimilar(r.Context(), query)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	if results == nil {
		results = []*models.SimilarWord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"word":    query.Word,
		"results": results,
		"count":   len(results),
	})
}

type batchSimilarRequest struct {
	Words         []string `json:"words"`
	POS           string   `json:"pos,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	MinSimilarity float64  `json:"min_similarity,omitempty"`
}

func (s *Server) handleBatchSimilar(w http.ResponseWriter, r *http.Request) {
	var req batchSimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Words) == 0 {
		s.respondError(w, http.StatusBadRequest, "words is required")
		return
	}
	pos, err := models.ParsePOS(req.POS)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.defaultLimit()
	}
	if limit < 1 || limit > models.MaxLimit {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", models.MaxLimit))
		return
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 1 {
		s.respondError(w, http.StatusBadRequest, "min_similarity must be between 0 and 1")
		return
	}
	s.logger.Debug("batch similar request", zap.Int("words", len(req.Words)), zap.Int("limit", limit))
	results, err := s.engine.BatchFindSimilar(r.Context(), req.Words, pos, limit, req.MinSimilarity)
	if err != nil {
		s.logger.Error("batch similarity failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

type compareRequest struct {
	Word1 string `json:"word1"`
	Word2 string `json:"word2"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	word1 := models.NormalizeWord(req.Word1)
	word2 := models.NormalizeWord(req.Word2)
	if word1 == "" || word2 == "" {
		s.respondError(w, http.StatusBadRequest, "word1 and word2 are required")
		return
	}
	s.logger.Debug("compare request", zap.String("word1", word1), zap.String("word2", word2))
	sim, err := s.engine.Compare(r.Context(), word1, word2)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"word1":      word1,
		"word2":      word2,
		"similarity": sim,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.defaultLimit())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	exact := false
	if raw := r.URL.Query().Get("exact"); raw != "" {
		exact, err = strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid exact")
			return
		}
	}
	query := &models.SearchQuery{
		Query: r.URL.Query().Get("q"),
		POS:   models.POS(r.URL.Query().Get("pos")),
		Exact: exact,
		Limit: limit,
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Bool("exact", query.Exact))
	entries, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	results := make([]wordResponse, 0, len(entries))
	for _, e := range entries {
		results = append(results, newWordResponse(e))
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query.Query,
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := s.engine.Stats(ctx)
	if err != nil {
		s.logger.Error("status: store stats failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"words":     stats.Total,
		"nouns":     stats.NounCount,
		"verbs":     stats.VerbCount,
		"both":      stats.BothCount,
		"dimension": s.dimension(ctx),
	}
	if s.index != nil {
		if n, err := s.index.DocCount(); err == nil {
			resp["index_docs"] = n
		}
	}
	if s.config != nil {
		configInfo := map[string]interface{}{
			"backend":       s.config.Storage.Backend,
			"database_path": s.config.Storage.DatabasePath,
			"index_path":    s.config.Storage.IndexPath,
			"model_path":    s.config.Model.Path,
			"words_csv":     s.config.Ingest.WordsCSV,
			"watch_enabled": s.config.Watch.EnabledOrDefault(),
		}
		diskBytes, err := store.DiskUsageBytes(s.config.Storage.DatabasePath, s.config.Storage.IndexPath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
		resp["config"] = configInfo
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil || s.config == nil || s.config.Ingest.WordsCSV == "" {
		s.respondError(w, http.StatusNotImplemented, "reload not enabled")
		return
	}
	path := s.config.Ingest.WordsCSV
	s.logger.Info("reload request", zap.String("path", path))
	report, err := s.loader.LoadFile(r.Context(), path, ingest.LoadOptions{
		Mode:      models.LoadApply,
		ChunkSize: s.config.Ingest.ChunkSize,
	})
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// dimension reports the embedding width of the stored corpus, zero when
// the store is empty.
func (s *Server) dimension(ctx context.Context) int {
	entries, err := s.engine.List(ctx, 0, 1)
	if err != nil || len(entries) == 0 {
		return 0
	}
	return len(entries[0].Embedding)
}

func (s *Server) defaultLimit() int {
	if s.config != nil && s.config.Search.DefaultLimit > 0 {
		return s.config.Search.DefaultLimit
	}
	return models.DefaultLimit
}

// respondDomainError maps store and engine errors to HTTP statuses:
// unknown word to 404, invalid parameters or unusable vectors to 400.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrZeroVector),
		errors.Is(err, models.ErrDimension):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

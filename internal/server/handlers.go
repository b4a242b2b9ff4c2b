package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kotae-ai/kotae/internal/browse"
	"github.com/kotae-ai/kotae/internal/generator"
	"github.com/kotae-ai/kotae/internal/models"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	abs, err := s.browser.Resolve(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("ingest request", zap.String("path", req.Path))
	report, err := s.ingester.IngestPath(r.Context(), abs)
	if err != nil {
		s.logger.Error("ingest failed", zap.String("path", req.Path), zap.Error(err))
		s.respondError(w, http.StatusNotFound, "path not found")
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	mode, err := generator.ParseMode(req.Mode)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat request",
		zap.String("mode", mode.String()),
		zap.Int("question_len", len(req.Question)))
	answer := s.chat.Ask(r.Context(), req.Question, mode)
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	var req models.BrowseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entries, err := s.browser.List(req.Path)
	if err != nil {
		switch {
		case errors.Is(err, browse.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "path not found")
		case errors.Is(err, browse.ErrNotADirectory), errors.Is(err, browse.ErrInvalidPath):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("browse failed", zap.String("path", req.Path), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}

// handlePredict serves the legacy single-model endpoint. Its response shape
// predates the chat API and is kept for old clients.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusOK, map[string]string{"Erreur": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.respondJSON(w, http.StatusOK, map[string]string{"Erreur": "question is required"})
		return
	}
	text, err := s.chat.Predict(r.Context(), req.Question)
	if err != nil {
		s.logger.Error("predict failed", zap.Error(err))
		s.respondJSON(w, http.StatusOK, map[string]string{"Erreur": err.Error()})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"Réponse": text})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fileCount, err := s.ledger.CountFiles(ctx)
	if err != nil {
		s.logger.Error("status: count files failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.ledger.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"files":  fileCount,
		"chunks": chunkCount,
	}
	if vectorCount, err := s.store.Count(ctx); err == nil {
		resp["vectors"] = vectorCount
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/midashi/internal/extract"
	"github.com/hyperjump/midashi/internal/models"
	"github.com/hyperjump/midashi/internal/pipeline"
)

// maxUploadBytes bounds the accepted PDF body size.
const maxUploadBytes = 64 << 20

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(content) == 0 {
		s.respondError(w, http.StatusBadRequest, "empty request body")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.pdf"
	}
	s.logger.Debug("outline request", zap.String("name", name), zap.Int("bytes", len(content)))
	result, err := s.analyzer.OutlineContent(content, name)
	if err != nil {
		if errors.Is(err, extract.ErrCorruptDocument) {
			s.respondError(w, http.StatusBadRequest, "document could not be parsed")
			return
		}
		s.logger.Error("outline failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type analyzeRequest struct {
	PDFDir  string `json:"pdf_dir"`
	Persona string `json:"persona"`
	Task    string `json:"task"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PDFDir == "" {
		s.respondError(w, http.StatusBadRequest, "pdf_dir is required")
		return
	}
	query := models.PersonaQuery{Role: req.Persona, Task: req.Task}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("analyze request",
		zap.String("pdf_dir", req.PDFDir),
		zap.String("persona", req.Persona),
		zap.String("task", req.Task))
	result, err := s.analyzer.AnalyzeDir(r.Context(), req.PDFDir, query)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoDocuments) || errors.Is(err, pipeline.ErrEmptyQuery) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
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

// Package api exposes the assistant over HTTP: chat, knowledge search,
// corpus uploads and reindexing for the local dashboard.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// TaskHandler routes free-text tasks; satisfied by agent.Router.
type TaskHandler interface {
	Handle(description string) domain.TaskResult
}

// Rebuilder regenerates the knowledge-base snapshot from the corpus.
type Rebuilder interface {
	Build(corpusDir string) (*domain.BuildStats, error)
}

// Reloader swaps the serving snapshot for the latest on disk.
type Reloader interface {
	Reload() error
}

const maxUploadBytes = 32 << 20

type Handler struct {
	tasks     TaskHandler
	searcher  port.Searcher
	builder   Rebuilder
	retriever Reloader
	corpusDir string
	logger    *zap.Logger
}

func NewHandler(
	tasks TaskHandler,
	searcher port.Searcher,
	builder Rebuilder,
	retriever Reloader,
	corpusDir string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		tasks:     tasks,
		searcher:  searcher,
		builder:   builder,
		retriever: retriever,
		corpusDir: corpusDir,
		logger:    logger,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	writeJSON(w, http.StatusOK, h.tasks.Handle(req.Message))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	results := h.searcher.Search(query, k)
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
	})
}

// handleUpload stores a document in the corpus and rebuilds the index
// in the background. Readers keep serving the previous snapshot until
// the reload lands.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	dst, err := os.Create(filepath.Join(h.corpusDir, name))
	if err != nil {
		h.logger.Error("failed to store upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		h.logger.Error("failed to store upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	if err := dst.Close(); err != nil {
		h.logger.Error("failed to store upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	go h.rebuild(name)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"file":   name,
	})
}

func (h *Handler) handleReindex(w http.ResponseWriter, r *http.Request) {
	stats, err := h.builder.Build(h.corpusDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("rebuild failed: %v", err))
		return
	}
	if err := h.retriever.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("reload failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) rebuild(trigger string) {
	if _, err := h.builder.Build(h.corpusDir); err != nil {
		h.logger.Error("background rebuild failed",
			zap.String("trigger", trigger), zap.Error(err))
		return
	}
	if err := h.retriever.Reload(); err != nil {
		h.logger.Error("snapshot reload failed",
			zap.String("trigger", trigger), zap.Error(err))
		return
	}
	h.logger.Info("knowledge base refreshed", zap.String("trigger", trigger))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out if encoding fails mid-stream.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

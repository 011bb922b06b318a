package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/promptcanvas/promptcanvas/internal/api/response"
	"github.com/promptcanvas/promptcanvas/internal/domain"
)

// ArtifactHandler serves stored artifact bytes
type ArtifactHandler struct {
	artifacts domain.ArtifactStore
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(artifacts domain.ArtifactStore) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts}
}

// Get streams an artifact by its locator components
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	artifactID := chi.URLParam(r, "artifactID")

	art, err := h.artifacts.Get(r.Context(), sessionID, artifactID)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			response.NotFound(w, "artifact not found")
			return
		}
		response.InternalError(w, "failed to load artifact")
		return
	}

	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Bytes)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(art.Bytes)
}

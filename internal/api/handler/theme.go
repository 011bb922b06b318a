package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptcanvas/promptcanvas/internal/api/response"
	"github.com/promptcanvas/promptcanvas/internal/theme"
)

// ThemeHandler serves the static theme catalog
type ThemeHandler struct {
	themes *theme.Store
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(themes *theme.Store) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// List returns the available theme names
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.themes.List()
	if names == nil {
		names = []string{}
	}
	response.OK(w, names)
}

// Get streams a theme image
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	art, ok := h.themes.Load(chi.URLParam(r, "name"))
	if !ok {
		response.NotFound(w, "theme not found")
		return
	}

	w.Header().Set("Content-Type", art.MIME)
	w.Write(art.Bytes)
}

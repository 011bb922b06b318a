package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptcanvas/promptcanvas/internal/api/middleware"
	"github.com/promptcanvas/promptcanvas/internal/api/response"
	"github.com/promptcanvas/promptcanvas/internal/service"
)

// ThreadHandler handles thread (branch) endpoints
type ThreadHandler struct {
	studio *service.StudioService
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(studio *service.StudioService) *ThreadHandler {
	return &ThreadHandler{studio: studio}
}

// List returns all threads of the caller's session
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.Unauthorized(w, "missing session")
		return
	}

	response.OK(w, h.studio.ListThreads(sessionID))
}

// Messages returns the thread's message log in render order
func (h *ThreadHandler) Messages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.Unauthorized(w, "missing session")
		return
	}

	threadID := chi.URLParam(r, "threadID")
	response.OK(w, h.studio.History(sessionID, threadID))
}

// Fork branches a thread, cloning its history and latest artifact
func (h *ThreadHandler) Fork(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.Unauthorized(w, "missing session")
		return
	}

	threadID := chi.URLParam(r, "threadID")
	newID := h.studio.Fork(sessionID, threadID)
	response.Created(w, map[string]string{"thread_id": newID})
}

// Delete removes a thread
func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.Unauthorized(w, "missing session")
		return
	}

	threadID := chi.URLParam(r, "threadID")
	if !h.studio.DeleteThread(sessionID, threadID) {
		response.NotFound(w, "thread not found")
		return
	}
	response.OK(w, map[string]string{"message": "thread deleted"})
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/promptcanvas/promptcanvas/internal/api/middleware"
	"github.com/promptcanvas/promptcanvas/internal/api/response"
	"github.com/promptcanvas/promptcanvas/internal/genai"
	"github.com/promptcanvas/promptcanvas/internal/imaging"
	"github.com/promptcanvas/promptcanvas/internal/service"
)

var validate = validator.New()

const maxUploadBytes = 32 << 20

// GenerateHandler handles generation requests
type GenerateHandler struct {
	studio *service.StudioService
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(studio *service.StudioService) *GenerateHandler {
	return &GenerateHandler{studio: studio}
}

type generateRequest struct {
	Prompt   string `json:"prompt" validate:"required,max=4000"`
	ThreadID string `json:"thread_id" validate:"max=128"`
	Theme    string `json:"theme" validate:"max=128"`
	Model    string `json:"model" validate:"max=128"`
	Template string `json:"template" validate:"max=64"`
}

// Generate accepts a prompt as JSON or as multipart form data with an
// optional base image under the "image" field.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		response.Unauthorized(w, "missing session")
		return
	}

	var req generateRequest
	var upload []byte
	var uploadMIME string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.BadRequest(w, "invalid multipart body")
			return
		}
		req = generateRequest{
			Prompt:   r.FormValue("prompt"),
			ThreadID: r.FormValue("thread_id"),
			Theme:    r.FormValue("theme"),
			Model:    r.FormValue("model"),
			Template: r.FormValue("template"),
		}
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if err != nil {
				response.BadRequest(w, "failed to read uploaded image")
				return
			}
			upload = data
			uploadMIME = header.Header.Get("Content-Type")
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.studio.Generate(r.Context(), service.GenerateParams{
		SessionID:  sessionID,
		ThreadID:   req.ThreadID,
		Prompt:     req.Prompt,
		Upload:     upload,
		UploadMIME: uploadMIME,
		Theme:      req.Theme,
		Model:      req.Model,
		Template:   req.Template,
	})
	if err != nil {
		response.Error(w, statusForError(err), err.Error())
		return
	}

	response.OK(w, result)
}

// statusForError maps the generation error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var upstream *genai.UpstreamError
	var download *genai.DownloadError

	switch {
	case errors.Is(err, imaging.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, genai.ErrOperationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, genai.ErrNoArtifact), errors.As(err, &upstream), errors.As(err, &download):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

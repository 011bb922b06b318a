package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcanvas/promptcanvas/internal/api/handler"
	"github.com/promptcanvas/promptcanvas/internal/api/middleware"
	"github.com/promptcanvas/promptcanvas/internal/config"
	"github.com/promptcanvas/promptcanvas/internal/domain"
	"github.com/promptcanvas/promptcanvas/internal/genai"
	"github.com/promptcanvas/promptcanvas/internal/repository/memory"
	"github.com/promptcanvas/promptcanvas/internal/service"
)

// stubGenerator returns a fixed PNG for every image call.
type stubGenerator struct {
	data []byte
	err  error
}

func (s *stubGenerator) GenerateImage(ctx context.Context, req genai.Request) (*genai.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &genai.Result{Data: s.data, MIME: "image/png", Model: "gemini-2.5-flash-image"}, nil
}

func (s *stubGenerator) GenerateVideo(ctx context.Context, req genai.Request) (*genai.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &genai.Result{Data: []byte("mp4"), MIME: "video/mp4", Model: "veo-3.0-generate-001"}, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newTestRouter wires the session-scoped routes the way the real router does,
// with in-memory stores and a stub generation backend.
func newTestRouter(t *testing.T, gen genai.Client) (chi.Router, *memory.ArtifactStore) {
	t.Helper()
	artifacts := memory.NewArtifactStore()

	studio := service.NewStudioService(
		memory.NewThreadRegistry(),
		artifacts,
		noThemes{},
		gen,
	)

	generateHandler := handler.NewGenerateHandler(studio)
	threadHandler := handler.NewThreadHandler(studio)
	artifactHandler := handler.NewArtifactHandler(artifacts)

	sm := middleware.NewSessionMiddleware(config.SessionConfig{CookieName: "canvas_session", CookieMaxAge: 3600})

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/artifacts/{sessionID}/{artifactID}", artifactHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(sm.Identify)
			r.Post("/generate", generateHandler.Generate)
			r.Route("/threads", func(r chi.Router) {
				r.Get("/", threadHandler.List)
				r.Route("/{threadID}", func(r chi.Router) {
					r.Get("/messages", threadHandler.Messages)
					r.Post("/fork", threadHandler.Fork)
					r.Delete("/", threadHandler.Delete)
				})
			})
		})
	})
	return r, artifacts
}

// noThemes is a theme store with an empty catalog.
type noThemes struct{}

func (noThemes) Load(string) (*domain.Artifact, bool) { return nil, false }

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "canvas_session" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestGenerateFlow(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{data: testPNG(t)})

	// First contact: generate on the default thread, session cookie minted.
	body, _ := json.Marshal(map[string]string{"prompt": "draw a cat logo", "thread_id": "t1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(t, rec)

	var resp struct {
		Success bool                   `json:"success"`
		Data    service.GenerateResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	assert.Equal(t, "t1", resp.Data.ThreadID)
	assert.NotEmpty(t, resp.Data.Message.ImageURL)

	// The locator resolves to canonical PNG bytes.
	req = httptest.NewRequest(http.MethodGet, resp.Data.Message.ImageURL, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	// Same session sees its thread history.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/threads/t1/messages", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history.Data, 2)
	assert.Equal(t, "user", history.Data[0]["role"])
	assert.Equal(t, "assistant", history.Data[1]["role"])
}

func TestGenerate_ValidationFailure(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{data: testPNG(t)})

	body, _ := json.Marshal(map[string]string{"prompt": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_UpstreamFailureStatus(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{err: &genai.UpstreamError{StatusCode: 429, Body: "quota"}})

	body, _ := json.Marshal(map[string]string{"prompt": "p"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestForkAndDeleteEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{data: testPNG(t)})

	body, _ := json.Marshal(map[string]string{"prompt": "seed", "thread_id": "t1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/threads/t1/fork", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var forked struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&forked))
	forkID := forked.Data["thread_id"]
	require.NotEmpty(t, forkID)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/threads/t1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Second delete: gone.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/threads/t1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The fork survives with inherited history.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/threads/"+forkID+"/messages", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history.Data, 3)
	assert.Equal(t, true, history.Data[2]["inherited"])
}

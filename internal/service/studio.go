package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptcanvas/promptcanvas/internal/domain"
	"github.com/promptcanvas/promptcanvas/internal/genai"
	"github.com/promptcanvas/promptcanvas/internal/imaging"
)

// BaseSource names which precedence rule picked the base artifact, so callers
// and tests can assert the reason, not just the outcome.
type BaseSource string

const (
	BaseUpload BaseSource = "upload"
	BaseTheme  BaseSource = "theme"
	BaseLast   BaseSource = "last_artifact"
	BaseNone   BaseSource = "none"
)

// GenerateParams is one caller request. ThreadID defaults to the session's
// main thread when empty.
type GenerateParams struct {
	SessionID  string
	ThreadID   string
	Prompt     string
	Upload     []byte
	UploadMIME string
	Theme      string
	Model      string
	Template   string
}

// GenerateResult reports a successful generation.
type GenerateResult struct {
	ThreadID   string             `json:"thread_id"`
	Message    domain.ChatMessage `json:"message"`
	BaseSource BaseSource         `json:"base_source"`
	Model      string             `json:"model"`
}

// StudioService is the request-handling core: it resolves the base artifact,
// drives the generation client, normalizes output, and keeps the thread log
// and artifact store consistent.
type StudioService struct {
	threads   domain.ThreadStore
	artifacts domain.ArtifactStore
	themes    domain.ThemeStore
	generator genai.Client
}

// NewStudioService creates a new studio service
func NewStudioService(
	threads domain.ThreadStore,
	artifacts domain.ArtifactStore,
	themes domain.ThemeStore,
	generator genai.Client,
) *StudioService {
	return &StudioService{
		threads:   threads,
		artifacts: artifacts,
		themes:    themes,
		generator: generator,
	}
}

// Generate runs one prompt against the target thread. The user message is
// appended before anything can fail and is never rolled back: a failed
// generation stays visible as a user turn followed by an assistant error
// turn. No thread lock is held across the model call.
func (s *StudioService) Generate(ctx context.Context, p GenerateParams) (*GenerateResult, error) {
	threadID := p.ThreadID
	if threadID == "" {
		threadID = domain.DefaultThreadID
	}

	s.threads.Append(p.SessionID, threadID, domain.ChatMessage{
		ID:        uuid.New(),
		Role:      domain.RoleUser,
		Text:      p.Prompt,
		CreatedAt: time.Now(),
	})

	result, err := s.generate(ctx, p, threadID)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", p.SessionID).
			Str("thread_id", threadID).
			Str("model", p.Model).
			Msg("generation failed")

		s.threads.Append(p.SessionID, threadID, domain.ChatMessage{
			ID:        uuid.New(),
			Role:      domain.RoleAssistant,
			Text:      fmt.Sprintf("Generation failed: %s", err.Error()),
			CreatedAt: time.Now(),
		})
		return nil, err
	}
	return result, nil
}

func (s *StudioService) generate(ctx context.Context, p GenerateParams, threadID string) (*GenerateResult, error) {
	base, source, err := s.resolveBase(p, threadID)
	if err != nil {
		return nil, err
	}

	req := genai.Request{
		Prompt:   p.Prompt,
		Model:    p.Model,
		Template: p.Template,
	}
	if base != nil {
		req.BaseImage = base.Bytes
		req.BaseMIME = base.MIME
	}

	if genai.IsVideoModel(p.Model) {
		return s.generateVideo(ctx, p, threadID, req, source)
	}
	return s.generateImage(ctx, p, threadID, req, source)
}

func (s *StudioService) generateImage(ctx context.Context, p GenerateParams, threadID string, req genai.Request, source BaseSource) (*GenerateResult, error) {
	raw, err := s.generator.GenerateImage(ctx, req)
	if err != nil {
		return nil, err
	}

	normalized, err := imaging.Normalize(raw.Data)
	if err != nil {
		return nil, err
	}

	// Persist before anything references the artifact: the assistant
	// message must never point at bytes that are not durably served.
	locator, err := s.artifacts.Put(ctx, p.SessionID, normalized, imaging.CanonicalMIME)
	if err != nil {
		return nil, fmt.Errorf("persist image artifact: %w", err)
	}

	s.threads.SetLastArtifact(p.SessionID, threadID, normalized, imaging.CanonicalMIME)

	msg := domain.ChatMessage{
		ID:        uuid.New(),
		Role:      domain.RoleAssistant,
		ImageURL:  locator,
		CreatedAt: time.Now(),
	}
	s.threads.Append(p.SessionID, threadID, msg)

	log.Info().
		Str("session_id", p.SessionID).
		Str("thread_id", threadID).
		Str("model", raw.Model).
		Str("base_source", string(source)).
		Int64("latency_ms", raw.LatencyMs).
		Msg("image generated")

	return &GenerateResult{
		ThreadID:   threadID,
		Message:    msg,
		BaseSource: source,
		Model:      raw.Model,
	}, nil
}

func (s *StudioService) generateVideo(ctx context.Context, p GenerateParams, threadID string, req genai.Request, source BaseSource) (*GenerateResult, error) {
	raw, err := s.generator.GenerateVideo(ctx, req)
	if err != nil {
		return nil, err
	}

	locator, err := s.artifacts.Put(ctx, p.SessionID, raw.Data, raw.MIME)
	if err != nil {
		return nil, fmt.Errorf("persist video artifact: %w", err)
	}

	// Video never becomes the thread's base image; LastArtifact is untouched.
	msg := domain.ChatMessage{
		ID:        uuid.New(),
		Role:      domain.RoleAssistant,
		VideoURL:  locator,
		CreatedAt: time.Now(),
	}
	s.threads.Append(p.SessionID, threadID, msg)

	log.Info().
		Str("session_id", p.SessionID).
		Str("thread_id", threadID).
		Str("model", raw.Model).
		Str("base_source", string(source)).
		Int64("latency_ms", raw.LatencyMs).
		Msg("video generated")

	return &GenerateResult{
		ThreadID:   threadID,
		Message:    msg,
		BaseSource: source,
		Model:      raw.Model,
	}, nil
}

// resolveBase picks the base artifact by strict precedence: uploaded bytes,
// then named theme, then the thread's latest artifact, then none. Uploaded
// and theme images are normalized here, so a broken base aborts the request
// before any model call. A theme name that doesn't resolve simply falls
// through to the next rule.
func (s *StudioService) resolveBase(p GenerateParams, threadID string) (*domain.Artifact, BaseSource, error) {
	if len(p.Upload) > 0 {
		normalized, err := imaging.Normalize(p.Upload)
		if err != nil {
			return nil, BaseUpload, fmt.Errorf("uploaded base image: %w", err)
		}
		return &domain.Artifact{Bytes: normalized, MIME: imaging.CanonicalMIME}, BaseUpload, nil
	}

	if p.Theme != "" {
		if art, ok := s.themes.Load(p.Theme); ok {
			normalized, err := imaging.Normalize(art.Bytes)
			if err != nil {
				return nil, BaseTheme, fmt.Errorf("theme %q: %w", p.Theme, err)
			}
			return &domain.Artifact{Bytes: normalized, MIME: imaging.CanonicalMIME}, BaseTheme, nil
		}
	}

	thread := s.threads.GetOrCreate(p.SessionID, threadID)
	if thread.LastArtifact != nil {
		return thread.LastArtifact, BaseLast, nil
	}

	return nil, BaseNone, nil
}

// Fork clones sourceThreadID (history plus artifact) into a new thread and
// returns the new thread's id.
func (s *StudioService) Fork(sessionID, sourceThreadID string) string {
	if sourceThreadID == "" {
		sourceThreadID = domain.DefaultThreadID
	}
	newID := s.threads.Clone(sessionID, sourceThreadID, "")

	log.Info().
		Str("session_id", sessionID).
		Str("source_thread_id", sourceThreadID).
		Str("thread_id", newID).
		Msg("thread forked")
	return newID
}

// DeleteThread removes a thread and reports whether it existed.
func (s *StudioService) DeleteThread(sessionID, threadID string) bool {
	return s.threads.Delete(sessionID, threadID)
}

// ListThreads returns the session's thread summaries.
func (s *StudioService) ListThreads(sessionID string) []domain.ThreadSummary {
	return s.threads.List(sessionID)
}

// History returns the thread's message log in render order.
func (s *StudioService) History(sessionID, threadID string) []domain.ChatMessage {
	if threadID == "" {
		threadID = domain.DefaultThreadID
	}
	return s.threads.GetOrCreate(sessionID, threadID).Messages
}

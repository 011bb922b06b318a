// Package gemini talks to the Gemini generative API over plain HTTP: a
// synchronous generateContent call for images and a long-running operation
// with bounded polling for video.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promptcanvas/promptcanvas/internal/config"
	"github.com/promptcanvas/promptcanvas/internal/genai"
)

const (
	defaultBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultPollInterval = 5 * time.Second
	defaultPollAttempts = 40
	fallbackImageMIME   = "image/png"
	videoMIME           = "video/mp4"
)

// Client implements genai.Client against the Gemini REST API.
type Client struct {
	cfg          config.GeminiConfig
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	pollAttempts int
}

// NewClient creates a Gemini client from process configuration. The API key
// is not checked here; a missing key surfaces as genai.ErrNotConfigured on
// the first call.
func NewClient(cfg config.GeminiConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollAttempts := cfg.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = defaultPollAttempts
	}
	return &Client{
		cfg:          cfg,
		client:       &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
	}
}

// Wire types. Field names are case-exact for API compatibility.

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	// Experimental surface some model versions answer with.
	Images []struct {
		InlineData *inlineData `json:"inline_data"`
	} `json:"images"`
}

type videoConfig struct {
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

type videoRequest struct {
	Prompt    string       `json:"prompt"`
	Config    *videoConfig `json:"config,omitempty"`
	BaseImage *inlineData  `json:"base_image,omitempty"`
}

type operationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type operationResult struct {
	GeneratedVideos []struct {
		Video struct {
			URI string `json:"uri"`
		} `json:"video"`
	} `json:"generated_videos"`
}

type operation struct {
	Name   string           `json:"name"`
	Done   bool             `json:"done"`
	Error  *operationError  `json:"error"`
	Result *operationResult `json:"result"`
}

var dataURIPattern = regexp.MustCompile(`data:(image/[a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/=]+)`)

// GenerateImage performs one synchronous generateContent call and extracts
// the first image payload from the response.
func (c *Client) GenerateImage(ctx context.Context, req genai.Request) (*genai.Result, error) {
	if c.cfg.APIKey == "" {
		return nil, genai.ErrNotConfigured
	}

	model := c.cfg.ImageModel
	if req.Model != "" && genai.IsImageModel(req.Model) {
		model = req.Model
	}

	parts := make([]part, 0, 2)
	if len(req.BaseImage) > 0 {
		mime := req.BaseMIME
		if mime == "" {
			mime = fallbackImageMIME
		}
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: mime,
			Data:     base64.StdEncoding.EncodeToString(req.BaseImage),
		}})
	}
	parts = append(parts, part{Text: req.Prompt})

	body := generateRequest{
		SystemInstruction: &content{
			Role:  "system",
			Parts: []part{{Text: genai.SystemInstruction(req.Template, req.Model)}},
		},
		Contents: []content{{Role: "user", Parts: parts}},
	}

	start := time.Now()
	var resp generateResponse
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	if err := c.postJSON(ctx, endpoint, body, &resp); err != nil {
		return nil, err
	}

	data, mime, ok := extractImage(&resp)
	if !ok {
		return nil, genai.ErrNoArtifact
	}

	log.Debug().
		Str("model", model).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("image generated")

	return &genai.Result{
		Data:      data,
		MIME:      mime,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// extractImage scans the response in fixed order: structured inline-data
// parts, then a data-URI inside a text part, then the experimental top-level
// images array.
func extractImage(resp *generateResponse) ([]byte, string, bool) {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if data, mime, ok := decodeInline(p.InlineData); ok {
				return data, mime, true
			}
		}
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			m := dataURIPattern.FindStringSubmatch(p.Text)
			if m == nil {
				continue
			}
			if data, err := base64.StdEncoding.DecodeString(m[2]); err == nil {
				return data, m[1], true
			}
		}
	}

	if len(resp.Images) > 0 {
		if data, mime, ok := decodeInline(resp.Images[0].InlineData); ok {
			return data, mime, true
		}
	}

	return nil, "", false
}

func decodeInline(in *inlineData) ([]byte, string, bool) {
	if in == nil || in.Data == "" {
		return nil, "", false
	}
	if in.MIMEType != "" && !strings.HasPrefix(in.MIMEType, "image/") {
		return nil, "", false
	}
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, "", false
	}
	mime := in.MIMEType
	if mime == "" {
		mime = fallbackImageMIME
	}
	return data, mime, true
}

// GenerateVideo starts a long-running video operation and polls it until it
// completes, errors, or the attempt ceiling is reached. The loop holds no
// locks and honors ctx cancellation between polls; the upstream job itself
// cannot be cancelled once started.
func (c *Client) GenerateVideo(ctx context.Context, req genai.Request) (*genai.Result, error) {
	if c.cfg.APIKey == "" {
		return nil, genai.ErrNotConfigured
	}

	model := c.cfg.VideoModel
	if req.Model != "" && genai.IsVideoModel(req.Model) {
		model = req.Model
	}

	body := videoRequest{Prompt: req.Prompt}
	if c.cfg.NegativePrompt != "" {
		body.Config = &videoConfig{NegativePrompt: c.cfg.NegativePrompt}
	}
	if len(req.BaseImage) > 0 {
		mime := req.BaseMIME
		if mime == "" {
			mime = fallbackImageMIME
		}
		body.BaseImage = &inlineData{
			MIMEType: mime,
			Data:     base64.StdEncoding.EncodeToString(req.BaseImage),
		}
	}

	start := time.Now()
	var op operation
	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, model)
	if err := c.postJSON(ctx, endpoint, body, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, fmt.Errorf("%w: operation start returned no name", genai.ErrNoArtifact)
	}

	log.Info().Str("model", model).Str("operation", op.Name).Msg("video operation started")

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		polled, err := c.pollOperation(ctx, op.Name)
		if err != nil {
			return nil, err
		}
		if polled.Error != nil {
			return nil, &genai.UpstreamError{
				StatusCode: polled.Error.Code,
				Body:       polled.Error.Message,
			}
		}
		if !polled.Done {
			continue
		}

		if polled.Result == nil || len(polled.Result.GeneratedVideos) == 0 {
			return nil, genai.ErrNoArtifact
		}
		uri := polled.Result.GeneratedVideos[0].Video.URI
		data, err := c.download(ctx, uri)
		if err != nil {
			return nil, &genai.DownloadError{URI: uri, Err: err}
		}

		log.Info().
			Str("operation", op.Name).
			Int("bytes", len(data)).
			Dur("latency", time.Since(start)).
			Msg("video operation completed")

		return &genai.Result{
			Data:      data,
			MIME:      videoMIME,
			Model:     model,
			LatencyMs: time.Since(start).Milliseconds(),
		}, nil
	}

	return nil, genai.ErrOperationTimeout
}

func (c *Client) pollOperation(ctx context.Context, name string) (*operation, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(name, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("poll operation: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read poll response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &genai.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var op operation
	if err := json.Unmarshal(respBody, &op); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &op, nil
}

func (c *Client) download(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty download uri")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(uri), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.withKey(endpoint), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &genai.UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) withKey(endpoint string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "key=" + url.QueryEscape(c.cfg.APIKey)
}

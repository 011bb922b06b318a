// Package genai defines the contract for the external generative model:
// request/result types, model routing, style templates, and the error
// taxonomy shared by every backend.
package genai

import (
	"context"
	"strings"
)

// Request carries one generation call. BaseImage, when present, is the
// editing context for the prompt and is sent inline ahead of the text.
type Request struct {
	Prompt    string
	BaseImage []byte
	BaseMIME  string
	Model     string
	Template  string
}

// Result is the raw artifact produced by a generation call, before
// normalization.
type Result struct {
	Data      []byte
	MIME      string
	Model     string
	LatencyMs int64
}

// Client produces artifacts from prompts. GenerateImage is a single
// request/response call; GenerateVideo starts a long-running operation and
// blocks the calling goroutine through a bounded poll loop. Neither call
// retries on failure.
type Client interface {
	GenerateImage(ctx context.Context, req Request) (*Result, error)
	GenerateVideo(ctx context.Context, req Request) (*Result, error)
}

// IsVideoModel reports whether the model id selects the video path.
func IsVideoModel(model string) bool {
	return strings.HasPrefix(model, "veo-")
}

// IsImageModel reports whether the model id matches the image-model naming
// pattern and may override the configured default.
func IsImageModel(model string) bool {
	return strings.Contains(model, "image")
}

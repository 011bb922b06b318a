package genai

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the API key is missing from process
	// configuration. Fatal for the request, never retried.
	ErrNotConfigured = errors.New("genai: api key is not configured")

	// ErrNoArtifact means the model answered successfully but no image or
	// video payload could be parsed out of the response.
	ErrNoArtifact = errors.New("genai: response carried no usable artifact")

	// ErrOperationTimeout means the video operation did not finish within
	// the polling ceiling. Terminal; a caller may issue a fresh request,
	// which starts a new operation.
	ErrOperationTimeout = errors.New("genai: video operation timed out")
)

// UpstreamError is a non-success answer from the model API, either an HTTP
// status or an error payload reported by a long-running operation.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("genai: upstream error (status %d): %s", e.StatusCode, e.Body)
}

// DownloadError means a completed video operation's artifact could not be
// fetched from its download URI.
type DownloadError struct {
	URI string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("genai: download %s: %v", e.URI, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

package domain

import (
	"context"
	"errors"
	"time"
)

// DefaultThreadID is the thread a session starts in when the caller does not
// name one.
const DefaultThreadID = "main"

// Thread is one branch of a conversation: an append-only message log plus the
// most recently generated image, which serves as the default base for the
// next edit. LastArtifact is set only after a successful image generation and
// is never cleared once set.
type Thread struct {
	ID           string        `json:"id"`
	Messages     []ChatMessage `json:"messages"`
	LastArtifact *Artifact     `json:"last_artifact,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ThreadSummary is the listing view of a thread.
type ThreadSummary struct {
	ID           string    `json:"id"`
	MessageCount int       `json:"message_count"`
	HasArtifact  bool      `json:"has_artifact"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ThreadStore holds per-session conversation threads. Sessions and threads
// are created lazily on first access; there is no "thread not found" error.
// Implementations must serialize operations per thread id, keep operations on
// distinct threads independent, and hand out value copies so callers never
// alias store-internal state.
type ThreadStore interface {
	// GetOrCreate returns a snapshot of the thread, creating it empty if
	// absent. Creation is idempotent under concurrent first access.
	GetOrCreate(sessionID, threadID string) Thread

	// Append adds a message to the end of the thread's log.
	Append(sessionID, threadID string, msg ChatMessage)

	// SetLastArtifact overwrites the thread's artifact. Messages are untouched.
	SetLastArtifact(sessionID, threadID string, data []byte, mime string)

	// Clone forks sourceThreadID into a new thread and returns its id (a fresh
	// id when newThreadID is empty). The message log is copied by value and
	// the artifact bytes are deep-copied; if the source log carries at least
	// one media message, a synthesized assistant message referencing the
	// source's latest media, marked Inherited, is appended after the copied
	// log.
	Clone(sessionID, sourceThreadID, newThreadID string) string

	// Delete removes the thread and reports whether it existed. Threads
	// previously cloned from it are unaffected.
	Delete(sessionID, threadID string) bool

	// List returns summaries of the session's threads, oldest first.
	List(sessionID string) []ThreadSummary
}

// ErrArtifactNotFound is returned by ArtifactStore.Get for unknown locators.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists generated artifact bytes under a session-scoped
// namespace and hands back an externally dereferenceable locator path.
type ArtifactStore interface {
	Put(ctx context.Context, sessionID string, data []byte, mime string) (string, error)
	Get(ctx context.Context, sessionID, artifactID string) (*Artifact, error)
}

// ThemeStore resolves a theme name to image bytes. Any read failure is
// reported as "not found" rather than an error.
type ThemeStore interface {
	Load(name string) (*Artifact, bool)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is a single turn in a thread. Once appended to a thread it is
// never mutated. A message carries at most one media reference: ImageURL and
// VideoURL are never both set.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text,omitempty"`
	ImageURL  string      `json:"image_url,omitempty"`
	VideoURL  string      `json:"video_url,omitempty"`
	Inherited bool        `json:"inherited,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// HasMedia reports whether the message references a generated artifact.
func (m ChatMessage) HasMedia() bool {
	return m.ImageURL != "" || m.VideoURL != ""
}

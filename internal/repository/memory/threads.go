// Package memory holds the in-process stores: the per-session thread
// registry and the default artifact store. State is volatile by design and
// lives only for the process lifetime.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptcanvas/promptcanvas/internal/domain"
)

// ThreadRegistry implements domain.ThreadStore. Each thread carries its own
// mutex so operations on one thread never block another; the registry-level
// locks cover only map access during lazy creation.
type ThreadRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionThreads
}

type sessionThreads struct {
	mu      sync.RWMutex
	threads map[string]*threadEntry
}

type threadEntry struct {
	mu     sync.Mutex
	thread domain.Thread
}

// NewThreadRegistry creates an empty registry.
func NewThreadRegistry() *ThreadRegistry {
	return &ThreadRegistry{sessions: make(map[string]*sessionThreads)}
}

func (r *ThreadRegistry) session(sessionID string) *sessionThreads {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.sessions[sessionID]; ok {
		return s
	}
	s = &sessionThreads{threads: make(map[string]*threadEntry)}
	r.sessions[sessionID] = s
	return s
}

// entry returns the thread's entry, creating it empty if absent. Creation is
// idempotent under concurrent first access: the double-checked write lock
// guarantees a single entry per id.
func (r *ThreadRegistry) entry(sessionID, threadID string) *threadEntry {
	s := r.session(sessionID)

	s.mu.RLock()
	e, ok := s.threads[threadID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.threads[threadID]; ok {
		return e
	}
	now := time.Now()
	e = &threadEntry{thread: domain.Thread{ID: threadID, CreatedAt: now, UpdatedAt: now}}
	s.threads[threadID] = e
	return e
}

// snapshot copies the thread by value, including message log and artifact
// bytes, so callers never alias registry state. Caller must hold e.mu.
func snapshot(e *threadEntry) domain.Thread {
	t := e.thread
	t.Messages = make([]domain.ChatMessage, len(e.thread.Messages))
	copy(t.Messages, e.thread.Messages)
	t.LastArtifact = e.thread.LastArtifact.Clone()
	return t
}

// GetOrCreate returns a value snapshot of the thread, creating it if absent.
func (r *ThreadRegistry) GetOrCreate(sessionID, threadID string) domain.Thread {
	e := r.entry(sessionID, threadID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e)
}

// Append adds msg to the end of the thread's log.
func (r *ThreadRegistry) Append(sessionID, threadID string, msg domain.ChatMessage) {
	e := r.entry(sessionID, threadID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thread.Messages = append(e.thread.Messages, msg)
	e.thread.UpdatedAt = time.Now()
}

// SetLastArtifact overwrites the thread's artifact with a copy of data.
func (r *ThreadRegistry) SetLastArtifact(sessionID, threadID string, data []byte, mime string) {
	e := r.entry(sessionID, threadID)
	e.mu.Lock()
	defer e.mu.Unlock()
	src := domain.Artifact{Bytes: data, MIME: mime}
	e.thread.LastArtifact = src.Clone()
	e.thread.UpdatedAt = time.Now()
}

// Clone forks sourceThreadID into newThreadID (a fresh uuid when empty) and
// returns the new thread's id. The source is snapshotted under its own lock
// and released before the destination is touched, so no two thread locks are
// ever held at once.
func (r *ThreadRegistry) Clone(sessionID, sourceThreadID, newThreadID string) string {
	if newThreadID == "" {
		newThreadID = uuid.New().String()
	}

	src := r.entry(sessionID, sourceThreadID)
	src.mu.Lock()
	copied := snapshot(src)
	src.mu.Unlock()

	var inherited *domain.ChatMessage
	for i := len(copied.Messages) - 1; i >= 0; i-- {
		if copied.Messages[i].HasMedia() {
			m := domain.ChatMessage{
				ID:        uuid.New(),
				Role:      domain.RoleAssistant,
				ImageURL:  copied.Messages[i].ImageURL,
				VideoURL:  copied.Messages[i].VideoURL,
				Inherited: true,
				CreatedAt: time.Now(),
			}
			inherited = &m
			break
		}
	}

	dst := r.entry(sessionID, newThreadID)
	dst.mu.Lock()
	defer dst.mu.Unlock()
	dst.thread.Messages = copied.Messages
	dst.thread.LastArtifact = copied.LastArtifact
	if inherited != nil {
		dst.thread.Messages = append(dst.thread.Messages, *inherited)
	}
	dst.thread.UpdatedAt = time.Now()
	return newThreadID
}

// Delete removes the thread and reports whether it existed.
func (r *ThreadRegistry) Delete(sessionID, threadID string) bool {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[threadID]; !ok {
		return false
	}
	delete(s.threads, threadID)
	return true
}

// List returns summaries of the session's threads, oldest first.
func (r *ThreadRegistry) List(sessionID string) []domain.ThreadSummary {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	s.mu.RLock()
	entries := make([]*threadEntry, 0, len(s.threads))
	for _, e := range s.threads {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	summaries := make([]domain.ThreadSummary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		summaries = append(summaries, domain.ThreadSummary{
			ID:           e.thread.ID,
			MessageCount: len(e.thread.Messages),
			HasArtifact:  e.thread.LastArtifact != nil,
			CreatedAt:    e.thread.CreatedAt,
			UpdatedAt:    e.thread.UpdatedAt,
		})
		e.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/promptcanvas/promptcanvas/internal/domain"
)

// ArtifactStore is the default in-process artifact serving store. Put hands
// back the URL path the API serves the bytes under.
type ArtifactStore struct {
	mu        sync.RWMutex
	bySession map[string]map[string]domain.Artifact
}

// NewArtifactStore creates an empty in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{bySession: make(map[string]map[string]domain.Artifact)}
}

// Put stores a copy of data under a fresh id and returns its locator path.
func (s *ArtifactStore) Put(_ context.Context, sessionID string, data []byte, mime string) (string, error) {
	id := uuid.New().String()
	src := domain.Artifact{Bytes: data, MIME: mime}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bySession[sessionID] == nil {
		s.bySession[sessionID] = make(map[string]domain.Artifact)
	}
	s.bySession[sessionID][id] = *src.Clone()

	return domain.ArtifactLocator(sessionID, id), nil
}

// Get returns the stored artifact or domain.ErrArtifactNotFound.
func (s *ArtifactStore) Get(_ context.Context, sessionID, artifactID string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	art, ok := s.bySession[sessionID][artifactID]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return art.Clone(), nil
}

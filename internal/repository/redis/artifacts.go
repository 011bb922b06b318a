package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/promptcanvas/promptcanvas/internal/domain"
)

const artifactKeyPrefix = "artifact:"

// ArtifactStore serves generated artifacts out of Redis. It backs the same
// contract as the in-memory store; only the serving bytes live here, the
// conversation state stays in process.
type ArtifactStore struct {
	client *Client
	ttl    time.Duration
}

// NewArtifactStore creates a Redis-backed artifact store. Entries expire
// after ttl (no expiry when ttl is zero).
func NewArtifactStore(client *Client, ttl time.Duration) *ArtifactStore {
	return &ArtifactStore{client: client, ttl: ttl}
}

func artifactKey(sessionID, artifactID string) string {
	return fmt.Sprintf("%s%s:%s", artifactKeyPrefix, sessionID, artifactID)
}

// Put stores the artifact under a fresh id and returns its locator path.
func (s *ArtifactStore) Put(ctx context.Context, sessionID string, data []byte, mime string) (string, error) {
	id := uuid.New().String()
	key := artifactKey(sessionID, id)

	pipe := s.client.rdb.TxPipeline()
	pipe.HSet(ctx, key, "mime", mime, "data", data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store artifact: %w", err)
	}

	return domain.ArtifactLocator(sessionID, id), nil
}

// Get returns the stored artifact or domain.ErrArtifactNotFound.
func (s *ArtifactStore) Get(ctx context.Context, sessionID, artifactID string) (*domain.Artifact, error) {
	key := artifactKey(sessionID, artifactID)

	vals, err := s.client.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrArtifactNotFound
	}

	return &domain.Artifact{Bytes: []byte(vals["data"]), MIME: vals["mime"]}, nil
}

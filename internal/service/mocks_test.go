package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/promptcanvas/promptcanvas/internal/domain"
	"github.com/promptcanvas/promptcanvas/internal/genai"
)

// MockGenerationClient mocks genai.Client
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) GenerateImage(ctx context.Context, req genai.Request) (*genai.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.Result), args.Error(1)
}

func (m *MockGenerationClient) GenerateVideo(ctx context.Context, req genai.Request) (*genai.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.Result), args.Error(1)
}

// MockThemeStore mocks domain.ThemeStore
type MockThemeStore struct {
	mock.Mock
}

func (m *MockThemeStore) Load(name string) (*domain.Artifact, bool) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Artifact), args.Bool(1)
}

// MockArtifactStore mocks domain.ArtifactStore for failure injection; the
// happy-path tests use the real in-memory store.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Put(ctx context.Context, sessionID string, data []byte, mime string) (string, error) {
	args := m.Called(ctx, sessionID, data, mime)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Get(ctx context.Context, sessionID, artifactID string) (*domain.Artifact, error) {
	args := m.Called(ctx, sessionID, artifactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

package theme_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcanvas/promptcanvas/internal/theme"
)

func newStore(t *testing.T) (*theme.Store, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sunset.png"), []byte("png-data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forest.jpg"), []byte("jpg-data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nope"), 0o644))
	return theme.NewStore(dir), dir
}

func TestLoad_ByName(t *testing.T) {
	s, _ := newStore(t)

	art, ok := s.Load("sunset")
	require.True(t, ok)
	assert.Equal(t, []byte("png-data"), art.Bytes)
	assert.Equal(t, "image/png", art.MIME)

	art, ok = s.Load("forest.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", art.MIME)
}

func TestLoad_MissingIsNotFoundNotError(t *testing.T) {
	s, _ := newStore(t)

	_, ok := s.Load("no-such-theme")
	assert.False(t, ok)

	_, ok = s.Load("notes.txt")
	assert.False(t, ok, "non-image extensions are not themes")

	_, ok = s.Load("")
	assert.False(t, ok)
}

func TestLoad_RejectsTraversal(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "outside.png"), []byte("x"), 0o644))

	_, ok := s.Load("../outside")
	assert.False(t, ok)
	_, ok = s.Load("../outside.png")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	s, _ := newStore(t)
	assert.Equal(t, []string{"forest", "sunset"}, s.List())

	empty := theme.NewStore(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, empty.List())
}

// Package theme serves named base images from a static directory. It is
// deliberately forgiving: any read failure means "no theme available", never
// an error.
package theme

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptcanvas/promptcanvas/internal/domain"
)

var extMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Store reads theme images from a directory on disk.
type Store struct {
	dir string
}

// NewStore creates a theme store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load resolves a theme name to its image bytes. Unknown names, traversal
// attempts, and unreadable files all report not found.
func (s *Store) Load(name string) (*domain.Artifact, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return nil, false
	}

	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		mime, ok := extMIME[ext]
		if !ok {
			return nil, false
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, false
		}
		return &domain.Artifact{Bytes: data, MIME: mime}, true
	}

	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp"} {
		data, err := os.ReadFile(filepath.Join(s.dir, name+ext))
		if err != nil {
			continue
		}
		return &domain.Artifact{Bytes: data, MIME: extMIME[ext]}, true
	}
	return nil, false
}

// List returns the available theme names, sorted.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := extMIME[ext]; !ok {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

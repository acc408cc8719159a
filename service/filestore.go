package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the path under which the content directory is served.
const URLPrefix = "/images/"

// FileStore keeps images in a local content directory, served statically
// under URLPrefix.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// Save writes atomically: content goes to a temp file in the same directory
// first, then is renamed into place.
func (s *FileStore) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("rename image: %w", err)
	}
	return URLPrefix + name, nil
}

func (s *FileStore) Remove(_ context.Context, url string) error {
	name := strings.TrimPrefix(url, URLPrefix)
	// Base guards against path traversal through a stored URL.
	return os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
}

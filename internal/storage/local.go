package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes avatars to a directory served under /uploads.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the backing directory, for mounting as a static file root.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the avatar to disk and returns its public path.
func (s *LocalStore) Save(_ context.Context, userID, ext string, r io.Reader) (string, error) {
	if ext == "" {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("avatar_%s%s", userID, ext)

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	return "/uploads/" + filename, nil
}

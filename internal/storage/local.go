package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage implements the Storage interface using local disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a new LocalStorage instance rooted at dir.
// If dir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "videoforge")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

// Dir returns the archive directory path.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes data to a file named key under the archive directory and
// returns a file:// URL for it.
func (s *LocalStorage) Save(ctx context.Context, key string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	path := filepath.Join(s.dir, filepath.Base(key))

	f, err := os.Create(path) // #nosec G304 - path is constrained to the archive dir
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write archive file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return "file://" + path, nil
}

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

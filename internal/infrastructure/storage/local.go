package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/invoicegen/backend/internal/application/invoicing"
)

// Ensure LocalArchiveStore implements ArchiveStore
var _ invoicing.ArchiveStore = (*LocalArchiveStore)(nil)

// LocalArchiveStore keeps batch archives on the local filesystem. Use it
// for development or single-node deployments where object storage is not
// configured. Download URLs are file:// paths.
type LocalArchiveStore struct {
	dir string
}

// NewLocalArchiveStore creates a store rooted at dir, creating it if needed
func NewLocalArchiveStore(dir string) (*LocalArchiveStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalArchiveStore{dir: dir}, nil
}

// Upload writes an archive under the given key
func (s *LocalArchiveStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	path := filepath.Join(s.dir, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// DownloadURL returns a file:// URL for a stored archive
func (s *LocalArchiveStore) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	path := filepath.Join(s.dir, filepath.Clean(key))
	if _, err := os.Stat(path); err != nil {
		return "", time.Time{}, fmt.Errorf("archive not found: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", time.Time{}, err
	}

	return "file://" + abs, time.Now().Add(expiresIn), nil
}

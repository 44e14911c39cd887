package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded files live. Paths are relative to the
// backend's storage root; implementations choose the physical layout.
type Storage interface {
	// Save writes content at path, replacing any existing file.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the file at path for reading. The caller must close it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the file at path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
}

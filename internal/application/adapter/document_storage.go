package adapter

import (
	"context"
	"io"
)

// DocumentStorage stores the binary content of supporting documents and attachments.
type DocumentStorage interface {
	// Save writes the content under key and returns the number of bytes written.
	Save(ctx context.Context, key string, content io.Reader, contentType string) (int64, error)

	// Open returns a reader for the content stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

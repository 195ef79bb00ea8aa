package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/rendiconti/backend/internal/application/adapter"
)

// GCSStorage keeps objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

// GCSOptions configures the bucket client.
type GCSOptions struct {
	Bucket  string
	Timeout time.Duration
	// CredentialsFile is a service account key; empty uses Application Default Credentials.
	CredentialsFile string
	// Endpoint points the client at an emulator such as fake-gcs-server. Requests are unauthenticated.
	Endpoint string
}

// NewGCSStorage opens a client for the configured bucket.
func NewGCSStorage(ctx context.Context, opts GCSOptions) (*GCSStorage, error) {
	if opts.Bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.Endpoint != "":
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	slog.Info("GCS document storage ready", "bucket", opts.Bucket, "emulator", opts.Endpoint != "")
	return &GCSStorage{client: client, bucket: opts.Bucket, timeout: opts.Timeout}, nil
}

var _ adapter.DocumentStorage = (*GCSStorage)(nil)

// Save uploads content under key.
func (s *GCSStorage) Save(ctx context.Context, key string, content io.Reader, contentType string) (int64, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	written, err := io.Copy(w, content)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("finalize upload: %w", err)
	}
	return written, nil
}

// Open returns a reader for the object stored under key.
func (s *GCSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	return r, nil
}

// Delete removes the object stored under key.
func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete GCS object: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

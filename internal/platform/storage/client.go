package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/localed/api/internal/platform/config"
)

const (
	envEmulatorHost = "STORAGE_EMULATOR_HOST"

	documentContentType  = "text/html; charset=utf-8"
	documentCacheControl = "public, max-age=60"
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	errInvalidBucket  = errors.New("storage: bucket name is required")
	errInvalidObject  = errors.New("storage: object name is required")
)

// ArtifactStore reads and writes published site documents in a single bucket.
type ArtifactStore struct {
	client *storage.Client
	bucket string
}

// NewArtifactStore constructs an ArtifactStore bound to the configured bucket.
func NewArtifactStore(ctx context.Context, cfg config.StorageConfig, opts ...option.ClientOption) (*ArtifactStore, error) {
	bucket := strings.TrimSpace(cfg.ArtifactsBucket)
	if bucket == "" {
		return nil, errInvalidBucket
	}

	if host := strings.TrimSpace(cfg.EmulatorHost); host != "" && os.Getenv(envEmulatorHost) == "" {
		_ = os.Setenv(envEmulatorHost, host)
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &ArtifactStore{client: client, bucket: bucket}, nil
}

// WriteSiteDocument uploads the rendered HTML for a site and returns the
// object path. Existing documents are overwritten.
func (s *ArtifactStore) WriteSiteDocument(ctx context.Context, slug string, html []byte) (string, error) {
	path := SiteDocumentPath(slug)
	if path == "" {
		return "", errInvalidObject
	}

	writer := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	writer.ContentType = documentContentType
	writer.CacheControl = documentCacheControl

	if _, err := writer.Write(html); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("storage: finalise %s: %w", path, err)
	}
	return path, nil
}

// ReadSiteDocument downloads the published HTML for a site.
func (s *ArtifactStore) ReadSiteDocument(ctx context.Context, slug string) ([]byte, error) {
	path := SiteDocumentPath(slug)
	if path == "" {
		return nil, errInvalidObject
	}

	reader, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// DeleteSiteDocument removes the published HTML for a site. A missing object
// is not an error.
func (s *ArtifactStore) DeleteSiteDocument(ctx context.Context, slug string) error {
	path := SiteDocumentPath(slug)
	if path == "" {
		return errInvalidObject
	}

	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying GCS client.
func (s *ArtifactStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

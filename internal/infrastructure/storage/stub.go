package storage

import (
	"context"
	"errors"
	"time"

	catalogapp "github.com/outsiders/backend/internal/application/catalog"
)

var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage stands in for the media store when no S3 backend is
// configured. Presign calls return fake URLs and ObjectExists always says
// yes so the image attach flow can be exercised in local development
// without running MinIO.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a stub media store with a placeholder base URL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
	}
}

// GenerateUploadURL returns a fake upload URL under BaseURL.
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL under BaseURL.
func (s *StubObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// DeleteObject validates the key and does nothing.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists reports true for any valid key so upload confirmation
// succeeds without a real backend.
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}

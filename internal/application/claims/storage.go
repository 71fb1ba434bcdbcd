package claims

import (
	"context"
	"time"
)

// ObjectStorageService defines the interface for claim attachment storage
// This interface is implemented by the infrastructure layer (S3, MinIO, etc.)
type ObjectStorageService interface {
	// Upload stores an attachment under the given storage key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading an attachment
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an attachment from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an attachment exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

package driven

import (
	"context"
	"io"
	"time"
)

// BlobStore holds uploaded files (S3-compatible object storage)
type BlobStore interface {
	// Put uploads an object of the given size
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// URL returns a time-limited download URL the loader can fetch
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes the object; missing objects are not an error
	Delete(ctx context.Context, key string) error

	// Ping checks the bucket is reachable
	Ping(ctx context.Context) error
}

package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// DocumentService manages a user's uploaded documents.
// Every operation is scoped to the owning user; other users' documents
// are reported as domain.ErrNotFound.
type DocumentService interface {
	// Upload stores the file and enqueues ingestion.
	// Returns domain.ErrFileTooLarge when size exceeds the caller's plan.
	Upload(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error)

	// CompleteUpload enqueues ingestion for a file already in storage
	CompleteUpload(ctx context.Context, userID string, ref domain.FileRef) error

	// Status reports the ingestion state of a document, PENDING when no
	// row owned by the user exists yet
	Status(ctx context.Context, userID, id string) (domain.UploadStatus, error)

	// GetByKey retrieves a document by storage key
	GetByKey(ctx context.Context, userID, key string) (*domain.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, userID, id string) (*domain.Document, error)

	// List retrieves the user's documents
	List(ctx context.Context, userID string) ([]*domain.Document, error)

	// Delete removes the document, its vectors and its stored file
	Delete(ctx context.Context, userID, id string) error
}

// IngestionService runs the ingestion state machine
type IngestionService interface {
	// Ingest drives a document from PROCESSING to SUCCESS or FAILED.
	// Calling it again for an existing key returns the existing document.
	Ingest(ctx context.Context, ownerID string, ref domain.FileRef, ent domain.Entitlement) (*domain.Document, error)

	// FailStale marks documents abandoned in PROCESSING as FAILED
	FailStale(ctx context.Context) (int, error)
}

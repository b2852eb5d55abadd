package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Create inserts a new document.
	// Returns domain.ErrAlreadyExists if the key is taken.
	Create(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByKey retrieves a document by storage key
	GetByKey(ctx context.Context, key string) (*domain.Document, error)

	// ListByUser retrieves all documents owned by a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*domain.Document, error)

	// UpdateStatus persists a status transition
	UpdateStatus(ctx context.Context, id string, status domain.UploadStatus, reason domain.FailureReason, pageCount int) error

	// FailStale marks documents stuck in PROCESSING since before cutoff as FAILED.
	// Returns the affected documents.
	FailStale(ctx context.Context, cutoff time.Time) ([]*domain.Document, error)

	// Delete removes a document and its messages
	Delete(ctx context.Context, id string) error
}

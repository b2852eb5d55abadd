package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// MessageStore handles chat message persistence (PostgreSQL)
type MessageStore interface {
	// Save inserts a message
	Save(ctx context.Context, msg *domain.Message) error

	// ListPage returns up to limit+1 messages for the file ordered by
	// (updated_at DESC, id DESC), strictly after the cursor message when
	// cursor is non-empty. Returns domain.ErrInvalidInput for an unknown cursor.
	ListPage(ctx context.Context, fileID string, limit int, cursor string) ([]*domain.Message, error)

	// Recent returns the newest n messages for the file in chronological order
	Recent(ctx context.Context, fileID string, n int) ([]*domain.Message, error)
}

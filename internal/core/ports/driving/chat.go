package driving

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// ChatService handles questions about a document and its message history
type ChatService interface {
	// SendMessage persists the question and opens the answer stream.
	// The assistant message is committed when the stream ends, fails or
	// is closed early; partial text is kept.
	SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error)

	// ListMessages returns one page of history, newest first
	ListMessages(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// EventPublisher announces document status transitions
type EventPublisher interface {
	PublishStatus(ctx context.Context, event *domain.DocumentStatusEvent) error
	Close() error
}

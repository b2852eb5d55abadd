package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// DocumentLoader fetches a PDF and splits it into page segments.
type DocumentLoader interface {
	// Load returns one segment per page in page order.
	// Fails on fetch errors or documents that cannot be parsed.
	Load(ctx context.Context, url string) ([]domain.PageSegment, error)
}

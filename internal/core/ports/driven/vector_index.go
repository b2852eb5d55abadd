package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// VectorIndex stores embedded page segments partitioned by namespace.
// A namespace holds exactly one document's vectors.
type VectorIndex interface {
	// Upsert writes vectors into the namespace, overwriting equal IDs
	Upsert(ctx context.Context, namespace string, vectors []domain.Vector) error

	// Query returns the k nearest segments in the namespace, best first
	Query(ctx context.Context, namespace string, embedding []float32, k int) ([]domain.RetrievedSegment, error)

	// DeleteNamespace removes every vector in the namespace
	DeleteNamespace(ctx context.Context, namespace string) error

	// HealthCheck verifies the index is reachable
	HealthCheck(ctx context.Context) error
}

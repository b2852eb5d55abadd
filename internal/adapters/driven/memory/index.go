// Package memory provides an in-process vector index for development and tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force cosine similarity index keyed by namespace.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]domain.Vector
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{namespaces: make(map[string]map[string]domain.Vector)}
}

// Upsert stores vectors, replacing equal IDs. All vectors in a namespace
// must share a dimension.
func (x *Index) Upsert(_ context.Context, namespace string, vectors []domain.Vector) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	ns := x.namespaces[namespace]
	if ns == nil {
		ns = make(map[string]domain.Vector, len(vectors))
		x.namespaces[namespace] = ns
	}

	dim := -1
	for _, v := range ns {
		dim = len(v.Values)
		break
	}
	for _, v := range vectors {
		if dim >= 0 && len(v.Values) != dim {
			return fmt.Errorf("vector %s: dimension %d, want %d", v.ID, len(v.Values), dim)
		}
		dim = len(v.Values)
	}

	for _, v := range vectors {
		v.Values = slices.Clone(v.Values)
		ns[v.ID] = v
	}
	return nil
}

// Query returns the k best-scoring segments of the namespace
func (x *Index) Query(_ context.Context, namespace string, embedding []float32, k int) ([]domain.RetrievedSegment, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	ns := x.namespaces[namespace]
	segments := make([]domain.RetrievedSegment, 0, len(ns))
	for _, v := range ns {
		segments = append(segments, domain.RetrievedSegment{
			ID:         v.ID,
			PageNumber: v.PageNumber,
			Text:       v.Text,
			Score:      cosine(v.Values, embedding),
			Model:      v.Model,
		})
	}

	slices.SortFunc(segments, func(a, b domain.RetrievedSegment) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.PageNumber - b.PageNumber
		}
	})
	if k >= 0 && len(segments) > k {
		segments = segments[:k]
	}
	return segments, nil
}

// DeleteNamespace drops the namespace
func (x *Index) DeleteNamespace(_ context.Context, namespace string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.namespaces, namespace)
	return nil
}

// HealthCheck always succeeds
func (x *Index) HealthCheck(context.Context) error {
	return nil
}

// Len returns the number of vectors in the namespace
func (x *Index) Len(namespace string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.namespaces[namespace])
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

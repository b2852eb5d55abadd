package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*MockVectorIndex)(nil)

// MockVectorIndex records upserts per namespace and returns canned query results
type MockVectorIndex struct {
	mu         sync.Mutex
	namespaces map[string]map[string]domain.Vector
	deleted    []string

	UpsertErr error
	QueryErr  error
	DeleteErr error
	// Results is returned by Query when set; otherwise stored vectors are returned in page order
	Results []domain.RetrievedSegment
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{namespaces: make(map[string]map[string]domain.Vector)}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, namespace string, vectors []domain.Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]domain.Vector)
		m.namespaces[namespace] = ns
	}
	for _, v := range vectors {
		ns[v.ID] = v
	}
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, namespace string, embedding []float32, k int) ([]domain.RetrievedSegment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.Results != nil {
		return m.Results, nil
	}
	var out []domain.RetrievedSegment
	for page := 1; len(out) < k && page <= len(m.namespaces[namespace]); page++ {
		for _, v := range m.namespaces[namespace] {
			if v.PageNumber == page {
				out = append(out, domain.RetrievedSegment{ID: v.ID, PageNumber: v.PageNumber, Text: v.Text, Model: v.Model})
			}
		}
	}
	return out, nil
}

func (m *MockVectorIndex) DeleteNamespace(ctx context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.namespaces, namespace)
	m.deleted = append(m.deleted, namespace)
	return nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

// Count returns the number of vectors stored in a namespace
func (m *MockVectorIndex) Count(namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.namespaces[namespace])
}

// Deleted returns the namespaces passed to DeleteNamespace
func (m *MockVectorIndex) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

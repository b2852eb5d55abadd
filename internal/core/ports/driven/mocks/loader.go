package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.DocumentLoader = (*MockDocumentLoader)(nil)

// MockDocumentLoader returns a fixed set of pages
type MockDocumentLoader struct {
	mu    sync.Mutex
	calls int

	Pages []domain.PageSegment
	Err   error
	// PanicWith makes Load panic when non-nil
	PanicWith any
}

// NewMockDocumentLoader creates a loader returning n numbered pages
func NewMockDocumentLoader(n int) *MockDocumentLoader {
	pages := make([]domain.PageSegment, n)
	for i := range pages {
		pages[i] = domain.PageSegment{PageNumber: i + 1, Text: "page text " + string(rune('a'+i%26))}
	}
	return &MockDocumentLoader{Pages: pages}
}

func (m *MockDocumentLoader) Load(ctx context.Context, url string) ([]domain.PageSegment, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.PanicWith != nil {
		panic(m.PanicWith)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages, nil
}

// Calls returns how many times Load was invoked
func (m *MockDocumentLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

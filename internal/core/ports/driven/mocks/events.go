package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.EventPublisher = (*MockEventPublisher)(nil)

// MockEventPublisher records published status events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*domain.DocumentStatusEvent

	Err error
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishStatus(ctx context.Context, event *domain.DocumentStatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

func (m *MockEventPublisher) Close() error { return nil }

// Statuses returns the status of every recorded event, in order
func (m *MockEventPublisher) Statuses() []domain.UploadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UploadStatus, len(m.events))
	for i, e := range m.events {
		out[i] = e.Status
	}
	return out
}

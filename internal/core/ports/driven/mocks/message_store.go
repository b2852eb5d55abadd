package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.MessageStore = (*MockMessageStore)(nil)

// MockMessageStore keeps messages in memory and pages them with the same
// (updated_at DESC, id DESC) keyset ordering as the PostgreSQL store.
type MockMessageStore struct {
	mu       sync.RWMutex
	messages map[string]*domain.Message

	SaveErr error
}

// NewMockMessageStore creates a new MockMessageStore
func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{messages: make(map[string]*domain.Message)}
}

func (m *MockMessageStore) Save(ctx context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *MockMessageStore) ListPage(ctx context.Context, fileID string, limit int, cursor string) ([]*domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var anchor *domain.Message
	if cursor != "" {
		c, ok := m.messages[cursor]
		if !ok || c.FileID != fileID {
			return nil, domain.ErrInvalidInput
		}
		anchor = c
	}

	ordered := m.ordered(fileID)
	out := make([]*domain.Message, 0, limit+1)
	for _, msg := range ordered {
		if anchor != nil && !before(msg, anchor) {
			continue
		}
		out = append(out, msg)
		if len(out) == limit+1 {
			break
		}
	}
	return out, nil
}

func (m *MockMessageStore) Recent(ctx context.Context, fileID string, n int) ([]*domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ordered := m.ordered(fileID)
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}

// All returns the file's messages newest first
func (m *MockMessageStore) All(fileID string) []*domain.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordered(fileID)
}

func (m *MockMessageStore) ordered(fileID string) []*domain.Message {
	var msgs []*domain.Message
	for _, msg := range m.messages {
		if msg.FileID == fileID {
			cp := *msg
			msgs = append(msgs, &cp)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return before(msgs[i], msgs[j]) })
	return msgs
}

// before reports whether a sorts ahead of b in newest-first order
func before(a, b *domain.Message) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID > b.ID
}

package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.BlobStore = (*MockBlobStore)(nil)

// MockBlobStore keeps uploaded objects in memory
type MockBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	PutErr error
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MockBlobStore) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MockBlobStore) Ping(ctx context.Context) error {
	return nil
}

// Has reports whether an object exists
func (m *MockBlobStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

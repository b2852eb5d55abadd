package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*MockDocumentStore)(nil)

// MockDocumentStore is an in-memory DocumentStore with a unique key index
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	byKey     map[string]string
	history   map[string][]domain.UploadStatus

	// Optional error injection
	CreateErr       error
	UpdateStatusErr error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		byKey:     make(map[string]string),
		history:   make(map[string][]domain.UploadStatus),
	}
}

func (m *MockDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.byKey[doc.Key]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *doc
	m.documents[doc.ID] = &cp
	m.byKey[doc.Key] = doc.ID
	m.history[doc.ID] = append(m.history[doc.ID], doc.UploadStatus)
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *MockDocumentStore) GetByKey(ctx context.Context, key string) (*domain.Document, error) {
	m.mu.RLock()
	id, ok := m.byKey[key]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *MockDocumentStore) ListByUser(ctx context.Context, userID string) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, d := range m.documents {
		if d.UserID == userID {
			cp := *d
			docs = append(docs, &cp)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (m *MockDocumentStore) UpdateStatus(ctx context.Context, id string, status domain.UploadStatus, reason domain.FailureReason, pageCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.UploadStatus = status
	doc.FailureReason = reason
	doc.PageCount = pageCount
	doc.UpdatedAt = time.Now()
	m.history[id] = append(m.history[id], status)
	return nil
}

func (m *MockDocumentStore) FailStale(ctx context.Context, cutoff time.Time) ([]*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed []*domain.Document
	for _, d := range m.documents {
		if d.UploadStatus == domain.UploadStatusProcessing && d.UpdatedAt.Before(cutoff) {
			d.UploadStatus = domain.UploadStatusFailed
			d.FailureReason = domain.FailureInterrupted
			d.UpdatedAt = time.Now()
			m.history[d.ID] = append(m.history[d.ID], d.UploadStatus)
			cp := *d
			failed = append(failed, &cp)
		}
	}
	return failed, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byKey, doc.Key)
	delete(m.documents, id)
	return nil
}

// History returns every status the document has been written with, in order
func (m *MockDocumentStore) History(id string) []domain.UploadStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.UploadStatus(nil), m.history[id]...)
}

// Count returns the number of stored documents
func (m *MockDocumentStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}

// Put stores a document directly (for test setup)
func (m *MockDocumentStore) Put(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.documents[doc.ID] = &cp
	m.byKey[doc.Key] = doc.ID
}

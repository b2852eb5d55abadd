package mocks

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*MockEmbeddingService)(nil)

// MockEmbeddingService produces deterministic vectors from text hashes.
// Safe for concurrent use.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	calls      int

	// EmbedFn overrides Embed when set
	EmbedFn func(texts []string) ([][]float32, error)
	// QueryErr is returned by EmbedQuery when set
	QueryErr error
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 8,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	fn := m.EmbedFn
	m.mu.Unlock()

	if fn != nil {
		return fn(texts)
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.Vector(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.Vector(query), nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// Vector returns the deterministic embedding for text
func (m *MockEmbeddingService) Vector(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Calls returns how many times Embed was invoked
func (m *MockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SetModel overrides the reported model name
func (m *MockEmbeddingService) SetModel(model string) {
	m.model = model
}

package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

var _ driven.LLMService = (*MockLLMService)(nil)

// MockLLMService streams a scripted list of deltas.
type MockLLMService struct {
	mu      sync.Mutex
	prompts []*domain.Prompt

	// Deltas are emitted in order before FailWith (or io.EOF)
	Deltas []string
	// FailWith is returned by Recv after all deltas when set
	FailWith error
	// OpenErr is returned by Stream when set
	OpenErr error
}

// NewMockLLMService creates a mock that streams the given deltas
func NewMockLLMService(deltas ...string) *MockLLMService {
	return &MockLLMService{Deltas: deltas}
}

func (m *MockLLMService) Stream(ctx context.Context, prompt *domain.Prompt) (driven.TokenStream, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return &mockStream{ctx: ctx, deltas: append([]string(nil), m.Deltas...), fail: m.FailWith}, nil
}

func (m *MockLLMService) Model() string                  { return "mock-llm" }
func (m *MockLLMService) Ping(ctx context.Context) error { return nil }
func (m *MockLLMService) Close() error                   { return nil }

// Prompts returns every prompt received
func (m *MockLLMService) Prompts() []*domain.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Prompt(nil), m.prompts...)
}

type mockStream struct {
	ctx    context.Context
	deltas []string
	fail   error
	closed bool
}

func (s *mockStream) Recv() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	if s.closed {
		return "", io.EOF
	}
	if len(s.deltas) > 0 {
		d := s.deltas[0]
		s.deltas = s.deltas[1:]
		return d, nil
	}
	if s.fail != nil {
		return "", s.fail
	}
	return "", io.EOF
}

func (s *mockStream) Close() error {
	s.closed = true
	return nil
}

package driven

import (
	"context"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// TokenStream yields generated text incrementally.
// Recv returns the next delta; io.EOF marks normal completion.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// LLMService provides streaming text generation
type LLMService interface {
	// Stream opens a generation for the prompt.
	// Cancelling ctx aborts the stream; Recv then returns the context error.
	Stream(ctx context.Context, prompt *domain.Prompt) (TokenStream, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}

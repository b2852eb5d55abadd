package ai

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Ensure OpenAILLM implements LLMService
var _ driven.LLMService = (*OpenAILLM)(nil)

const defaultChatModel = "gpt-4o-mini"

// OpenAILLM streams chat completions from an OpenAI-compatible endpoint.
type OpenAILLM struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
}

// NewOpenAILLM creates a generation service from settings
func NewOpenAILLM(settings *domain.LLMSettings) (*OpenAILLM, error) {
	if settings == nil {
		return nil, errors.New("LLM settings are required")
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := settings.Model
	if model == "" {
		model = defaultChatModel
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
		if settings.Provider == domain.AIProviderOllama {
			baseURL = defaultOllamaBaseURL
		}
	}

	return &OpenAILLM{
		apiKey:      settings.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: settings.Temperature,
		// No client timeout: streams run as long as the request context allows.
		client: &http.Client{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// Stream starts a streaming completion. Errors before the first byte are
// returned here; later failures surface from Recv.
func (l *OpenAILLM) Stream(ctx context.Context, prompt *domain.Prompt) (driven.TokenStream, error) {
	if prompt == nil || len(prompt.Messages) == 0 {
		return nil, fmt.Errorf("empty prompt: %w", domain.ErrInvalidInput)
	}

	req := chatRequest{
		Model:       l.model,
		Messages:    make([]chatMessage, 0, len(prompt.Messages)),
		Temperature: prompt.Temperature,
		Stream:      true,
	}
	if req.Temperature == 0 {
		req.Temperature = l.temperature
	}
	for _, m := range prompt.Messages {
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := doJSON(ctx, l.client, l.baseURL+"/chat/completions", l.apiKey, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	return &sseStream{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

// Model returns the model name being used
func (l *OpenAILLM) Model() string {
	return l.model
}

// Ping lists models to verify connectivity and credentials
func (l *OpenAILLM) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

// Close releases idle connections
func (l *OpenAILLM) Close() error {
	l.client.CloseIdleConnections()
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error *apiError `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil && body.Error != nil {
		return body.Error
	}
	return fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
}

// sseStream reads "data: {...}" server-sent events until "data: [DONE]".
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	once sync.Once
	done bool
}

func (s *sseStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != nil {
			return "", chunk.Error
		}
		for _, c := range chunk.Choices {
			if c.Delta.Content != "" {
				return c.Delta.Content, nil
			}
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	// Body ended without [DONE]; the upstream cut the stream.
	return "", io.ErrUnexpectedEOF
}

func (s *sseStream) Close() error {
	var err error
	s.once.Do(func() {
		s.done = true
		err = s.body.Close()
	})
	return err
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Ensure OpenAIEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*OpenAIEmbedding)(nil)

const (
	defaultOpenAIBaseURL    = "https://api.openai.com/v1"
	defaultOllamaBaseURL    = "http://localhost:11434/v1"
	defaultEmbeddingModel   = "text-embedding-3-small"
	defaultEmbeddingTimeout = 60 * time.Second
)

// OpenAIEmbedding implements EmbeddingService against the OpenAI
// /embeddings API. Ollama is served through its OpenAI-compatible endpoint.
type OpenAIEmbedding struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	limiter    *rate.Limiter
	client     *http.Client
}

// Model dimensions for OpenAI embedding models
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// NewOpenAIEmbedding creates an embedding service from settings
func NewOpenAIEmbedding(settings *domain.EmbeddingSettings) (*OpenAIEmbedding, error) {
	if settings == nil {
		return nil, errors.New("embedding settings are required")
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := settings.Model
	if model == "" {
		model = defaultEmbeddingModel
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
		if settings.Provider == domain.AIProviderOllama {
			baseURL = defaultOllamaBaseURL
		}
	}

	dimensions := settings.Dimensions
	if dimensions <= 0 {
		var ok bool
		if dimensions, ok = openAIModelDimensions[model]; !ok {
			dimensions = 1536
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if settings.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), 1)
	}

	return &OpenAIEmbedding{
		apiKey:     settings.APIKey,
		model:      model,
		baseURL:    baseURL,
		dimensions: dimensions,
		limiter:    limiter,
		client:     &http.Client{Timeout: defaultEmbeddingTimeout},
	}, nil
}

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("OpenAI API error: %s (type: %s)", e.Message, e.Type)
}

// Embed generates one embedding per text, in input order
func (e *OpenAIEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp embeddingResponse
	err := e.post(ctx, "/embeddings", embeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: "float",
	}, &resp)
	if err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(embeddings) {
			embeddings[d.Index] = d.Embedding
		}
	}
	for i, emb := range embeddings {
		if emb == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a question
func (e *OpenAIEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.New("no embedding returned for query")
	}
	return embeddings[0], nil
}

// Dimensions returns the embedding dimension size
func (e *OpenAIEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *OpenAIEmbedding) Model() string {
	return e.model
}

// HealthCheck embeds a short test string
func (e *OpenAIEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases idle connections
func (e *OpenAIEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *OpenAIEmbedding) post(ctx context.Context, path string, body any, out *embeddingResponse) error {
	resp, err := doJSON(ctx, e.client, e.baseURL+path, e.apiKey, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Error != nil {
		return out.Error
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
	}
	return nil
}

// doJSON posts body as JSON with bearer auth
func doJSON(ctx context.Context, client *http.Client, url, apiKey string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

func embeddingSettings(baseURL string) *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
		BaseURL:  baseURL,
	}
}

func TestNewOpenAIEmbedding_Defaults(t *testing.T) {
	_, err := NewOpenAIEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})
	assert.Error(t, err, "api key required")

	svc, err := NewOpenAIEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, defaultEmbeddingModel, svc.Model())
	assert.Equal(t, defaultOpenAIBaseURL, svc.baseURL)
	assert.Equal(t, 1536, svc.Dimensions())

	local, err := NewOpenAIEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text", Dimensions: 768})
	require.NoError(t, err)
	assert.Equal(t, defaultOllamaBaseURL, local.baseURL)
	assert.Equal(t, 768, local.Dimensions())
}

func TestOpenAIEmbedding_DimensionsByModel(t *testing.T) {
	cases := map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"unknown-model":          1536,
	}
	for model, dims := range cases {
		t.Run(model, func(t *testing.T) {
			s := embeddingSettings("")
			s.Model = model
			svc, err := NewOpenAIEmbedding(s)
			require.NoError(t, err)
			assert.Equal(t, dims, svc.Dimensions())
		})
	}
}

func TestOpenAIEmbedding_EmbedPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"page one", "page two"}, req.Input)

		// Out of order on purpose.
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0.2,0.2]},
			{"index":0,"embedding":[0.1,0.1]}
		]}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding(embeddingSettings(server.URL))
	require.NoError(t, err)

	got, err := svc.Embed(context.Background(), []string{"page one", "page two"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.1}, {0.2, 0.2}}, got)
}

func TestOpenAIEmbedding_MissingEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding(embeddingSettings(server.URL))
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "missing embedding for input 1")
}

func TestOpenAIEmbedding_EmptyInput(t *testing.T) {
	svc, err := NewOpenAIEmbedding(embeddingSettings("http://127.0.0.1:0"))
	require.NoError(t, err)
	got, err := svc.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenAIEmbedding_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding(embeddingSettings(server.URL))
	require.NoError(t, err)

	_, err = svc.EmbedQuery(context.Background(), "q")
	assert.ErrorContains(t, err, "bad key")
	assert.Error(t, svc.HealthCheck(context.Background()))
}

func TestOpenAIEmbedding_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding(embeddingSettings(server.URL))
	require.NoError(t, err)

	_, err = svc.EmbedQuery(context.Background(), "q")
	assert.ErrorContains(t, err, "status 502")
}

func TestOpenAIEmbedding_RateLimitHonorsContext(t *testing.T) {
	s := embeddingSettings("http://127.0.0.1:0")
	s.RequestsPerSecond = 0.001
	svc, err := NewOpenAIEmbedding(s)
	require.NoError(t, err)

	// Consume the single burst token.
	require.True(t, svc.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Embed(ctx, []string{"a"})
	assert.Error(t, err)
}

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven/mocks"
)

func pages(n int) []domain.PageSegment {
	out := make([]domain.PageSegment, n)
	for i := range out {
		out[i] = domain.PageSegment{PageNumber: i + 1, Text: "text"}
	}
	return out
}

func TestIndexer_OneVectorPerSegment(t *testing.T) {
	emb := mocks.NewMockEmbeddingService()
	index := mocks.NewMockVectorIndex()
	ix := NewIndexer(IndexerConfig{Services: newTestServices(emb, nil), Index: index, BatchSize: 3})

	require.NoError(t, ix.Index(context.Background(), "doc-1", pages(7)))

	assert.Equal(t, 7, index.Count("doc-1"))
	assert.Equal(t, 3, emb.Calls(), "7 segments in batches of 3")
}

func TestIndexer_ReindexOverwrites(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	ix := NewIndexer(IndexerConfig{Services: newTestServices(mocks.NewMockEmbeddingService(), nil), Index: index})

	require.NoError(t, ix.Index(context.Background(), "doc-1", pages(4)))
	require.NoError(t, ix.Index(context.Background(), "doc-1", pages(4)))

	assert.Equal(t, 4, index.Count("doc-1"))
}

func TestIndexer_FailsWholeOperation(t *testing.T) {
	emb := mocks.NewMockEmbeddingService()
	var calls atomic.Int32
	emb.EmbedFn = func(texts []string) ([][]float32, error) {
		if calls.Add(1) == 2 {
			return nil, errors.New("embedding quota")
		}
		return make([][]float32, len(texts)), nil
	}
	ix := NewIndexer(IndexerConfig{Services: newTestServices(emb, nil), Index: mocks.NewMockVectorIndex(), BatchSize: 1, Concurrency: 1})

	err := ix.Index(context.Background(), "doc-1", pages(3))
	assert.ErrorContains(t, err, "embedding quota")
}

func TestIndexer_EmbeddingCountMismatch(t *testing.T) {
	emb := mocks.NewMockEmbeddingService()
	emb.EmbedFn = func(texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}
	ix := NewIndexer(IndexerConfig{Services: newTestServices(emb, nil), Index: mocks.NewMockVectorIndex(), BatchSize: 2})

	err := ix.Index(context.Background(), "doc-1", pages(2))
	assert.ErrorContains(t, err, "got 1 embeddings for 2 segments")
}

func TestVectorID(t *testing.T) {
	assert.Equal(t, VectorID("doc-1", 3), VectorID("doc-1", 3))
	assert.NotEqual(t, VectorID("doc-1", 3), VectorID("doc-1", 4))
	assert.NotEqual(t, VectorID("doc-1", 3), VectorID("doc-2", 3))
}

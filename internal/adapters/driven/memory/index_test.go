package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

func TestIndex_QueryRanksByCosine(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "doc-1", []domain.Vector{
		{ID: "p1", Values: []float32{1, 0}, PageNumber: 1, Text: "cats", Model: "m"},
		{ID: "p2", Values: []float32{0, 1}, PageNumber: 2, Text: "dogs"},
		{ID: "p3", Values: []float32{1, 1}, PageNumber: 3, Text: "both"},
	}))

	segs, err := idx.Query(ctx, "doc-1", []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, 1, segs[0].PageNumber)
	assert.Equal(t, "m", segs[0].Model)
	assert.Equal(t, 3, segs[1].PageNumber)
	assert.InDelta(t, 0.995, segs[0].Score, 0.01)
}

func TestIndex_NamespacesAreIsolated(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "doc-1", []domain.Vector{{ID: "a", Values: []float32{1}, PageNumber: 1}}))
	require.NoError(t, idx.Upsert(ctx, "doc-2", []domain.Vector{{ID: "b", Values: []float32{1}, PageNumber: 1}}))

	segs, err := idx.Query(ctx, "doc-2", []float32{1}, 4)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "b", segs[0].ID)

	require.NoError(t, idx.DeleteNamespace(ctx, "doc-1"))
	assert.Zero(t, idx.Len("doc-1"))
	assert.Equal(t, 1, idx.Len("doc-2"))
}

func TestIndex_UpsertOverwritesByID(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	v := domain.Vector{ID: "a", Values: []float32{1, 0}, PageNumber: 1, Text: "old"}
	require.NoError(t, idx.Upsert(ctx, "doc", []domain.Vector{v}))
	v.Text = "new"
	require.NoError(t, idx.Upsert(ctx, "doc", []domain.Vector{v}))

	assert.Equal(t, 1, idx.Len("doc"))
	segs, err := idx.Query(ctx, "doc", []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, "new", segs[0].Text)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "doc", []domain.Vector{{ID: "a", Values: []float32{1, 0}}}))
	assert.Error(t, idx.Upsert(ctx, "doc", []domain.Vector{{ID: "b", Values: []float32{1}}}))
}

func TestIndex_EmptyNamespace(t *testing.T) {
	segs, err := NewIndex().Query(context.Background(), "missing", []float32{1}, 4)
	require.NoError(t, err)
	assert.Empty(t, segs)
}

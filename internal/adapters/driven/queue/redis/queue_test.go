package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q, err := NewQueue(context.Background(), client, "worker-test")
	require.NoError(t, err)
	return q
}

func ingestTask() *domain.Task {
	return domain.NewIngestTask("user-1", domain.FileRef{
		Key:  "uploads/user-1/report.pdf",
		Name: "report.pdf",
		URL:  "https://blobs.test/uploads/user-1/report.pdf",
	})
}

func TestQueue_NewQueue_Idempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := NewQueue(context.Background(), client, "a")
	require.NoError(t, err)
	_, err = NewQueue(context.Background(), client, "b")
	require.NoError(t, err)
}

func TestQueue_NilClient(t *testing.T) {
	_, err := NewQueue(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestQueue_EnqueueDequeueAck(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	task := ingestTask()

	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, domain.TaskStatusProcessing, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, task.FileRef(), got.FileRef())

	require.NoError(t, q.Ack(ctx, got.ID))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, stored.Status)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CompletedCount)
	assert.Equal(t, int64(0), stats.PendingCount)
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := newTestQueue(t)

	got, err := q.DequeueWithTimeout(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_NackSchedulesRetry(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, ingestTask()))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, q.Nack(ctx, got.ID, "lock held"))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, stored.Status)
	assert.Equal(t, "lock held", stored.Error)
	assert.True(t, stored.ScheduledFor.After(time.Now()))

	// Backoff keeps it off the stream for now.
	again, err := q.DequeueWithTimeout(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, again)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingCount)
}

func TestQueue_NackExhausted(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	task := ingestTask()
	task.MaxAttempts = 1
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, q.Nack(ctx, got.ID, "boom"))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, stored.Status)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FailedCount)
}

func TestQueue_DelayedTaskNotDelivered(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	task := ingestTask()
	task.ScheduledFor = time.Now().Add(time.Hour)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_GetTaskMissing(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.GetTask(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, q.Ack(context.Background(), "nope"), domain.ErrNotFound)
}

func TestQueue_Ping(t *testing.T) {
	q := newTestQueue(t)
	assert.NoError(t, q.Ping(context.Background()))
	assert.NoError(t, q.Close())
}

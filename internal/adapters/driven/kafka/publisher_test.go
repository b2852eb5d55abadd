package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_KeysByDocument(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := &domain.Document{
		ID:            "doc-1",
		Key:           "uploads/a.pdf",
		UserID:        "user-1",
		UploadStatus:  domain.UploadStatusFailed,
		FailureReason: domain.FailureQuotaExceeded,
		UpdatedAt:     at,
	}
	require.NoError(t, p.PublishStatus(context.Background(), doc.StatusEvent()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "doc-1", string(w.msgs[0].Key))
	assert.Equal(t, at, w.msgs[0].Time)

	var got domain.DocumentStatusEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, domain.UploadStatusFailed, got.Status)
	assert.Equal(t, domain.FailureQuotaExceeded, got.FailureReason)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{err: errors.New("no brokers")}}
	err := p.PublishStatus(context.Background(), &domain.DocumentStatusEvent{DocumentID: "d"})
	assert.ErrorContains(t, err, "no brokers")
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishStatus(context.Background(), &domain.DocumentStatusEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_DefaultTopic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

const commitTimeout = 10 * time.Second

type chatService struct {
	documents driven.DocumentStore
	messages  driven.MessageStore
	engine    *AnswerEngine
	logger    *slog.Logger
}

// ChatConfig holds dependencies for the chat service.
type ChatConfig struct {
	Documents driven.DocumentStore
	Messages  driven.MessageStore
	Engine    *AnswerEngine
	Logger    *slog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(cfg ChatConfig) driving.ChatService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &chatService{
		documents: cfg.Documents,
		messages:  cfg.Messages,
		engine:    cfg.Engine,
		logger:    logger.With("component", "chat"),
	}
}

// SendMessage stores the question, then opens the answer stream. The
// returned stream commits the assistant message exactly once: on normal
// end, on a stream error, or on Close, whichever comes first.
func (s *chatService) SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.ownedDocument(ctx, userID, req.FileID)
	if err != nil {
		return nil, err
	}
	if doc.UploadStatus != domain.UploadStatusSuccess {
		return nil, fmt.Errorf("%w: status %s", domain.ErrDocumentNotReady, doc.UploadStatus)
	}

	recent, err := s.messages.Recent(ctx, req.FileID, s.engine.HistoryTurns())
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	history := make([]domain.ChatTurn, len(recent))
	for i, m := range recent {
		history[i] = domain.ChatTurn{IsUserMessage: m.IsUserMessage, Text: m.Text}
	}

	question := newMessage(req.FileID, userID, req.Message, true)
	if err := s.messages.Save(ctx, question); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}

	stream, err := s.engine.Answer(ctx, req.FileID, req.Message, history)
	if err != nil {
		s.logger.Error("failed to open answer stream", "file_id", req.FileID, "error", err)
		return nil, err
	}

	return &committingStream{
		inner: stream,
		commit: func(text string, streamErr error) {
			s.commitAnswer(ctx, req.FileID, userID, text, streamErr)
		},
	}, nil
}

func (s *chatService) commitAnswer(ctx context.Context, fileID, userID, text string, streamErr error) {
	logger := s.logger.With("file_id", fileID)
	if streamErr != nil {
		logger.Warn("answer stream interrupted", "chars", len(text), "error", streamErr)
	}
	if text == "" {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	if err := s.messages.Save(saveCtx, newMessage(fileID, userID, text, false)); err != nil {
		logger.Error("failed to commit answer", "error", err)
	}
}

// ListMessages returns one keyset page of history, newest first.
func (s *chatService) ListMessages(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error) {
	if fileID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.ownedDocument(ctx, userID, fileID); err != nil {
		return nil, err
	}

	limit = domain.ClampPageSize(limit)
	msgs, err := s.messages.ListPage(ctx, fileID, limit, cursor)
	if err != nil {
		return nil, err
	}

	page := &domain.MessagePage{Messages: msgs}
	if len(msgs) > limit {
		page.Messages = msgs[:limit]
		next := page.Messages[limit-1].ID
		page.NextCursor = &next
	}
	return page, nil
}

func (s *chatService) ownedDocument(ctx context.Context, userID, fileID string) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func newMessage(fileID, userID, text string, fromUser bool) *domain.Message {
	now := time.Now()
	return &domain.Message{
		ID:            uuid.Must(uuid.NewV7()).String(),
		FileID:        fileID,
		UserID:        userID,
		Text:          text,
		IsUserMessage: fromUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// committingStream accumulates deltas and hands the full text to commit
// once the stream is finished.
type committingStream struct {
	inner  driven.TokenStream
	commit func(text string, err error)

	buf  strings.Builder
	once sync.Once
}

func (c *committingStream) Recv() (string, error) {
	delta, err := c.inner.Recv()
	if delta != "" {
		c.buf.WriteString(delta)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.finish(nil)
			return delta, io.EOF
		}
		err = fmt.Errorf("%w: %w", domain.ErrStreamFailed, err)
		c.finish(err)
		return delta, err
	}
	return delta, nil
}

// Close commits whatever has been received so far.
func (c *committingStream) Close() error {
	err := c.inner.Close()
	c.finish(errors.New("closed before completion"))
	return err
}

func (c *committingStream) finish(err error) {
	c.once.Do(func() {
		c.commit(c.buf.String(), err)
	})
}

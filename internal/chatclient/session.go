package chatclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// DefaultPageSize is the number of messages fetched per page.
const DefaultPageSize = 10

// ErrSendInProgress is returned when Send is called while an answer is
// still streaming.
var ErrSendInProgress = errors.New("send already in progress")

// TextStream yields answer deltas until io.EOF.
type TextStream interface {
	Recv() (string, error)
	Close() error
}

// API is the part of the server API a Session drives.
type API interface {
	ListMessages(ctx context.Context, fileID string, limit int, cursor string) (Page, error)
	SendMessage(ctx context.Context, fileID, text string) (TextStream, error)
}

// Notification is a user-facing message about a failed operation.
type Notification struct {
	Title  string
	Detail string
}

// SessionConfig configures a chat session for one document.
type SessionConfig struct {
	API      API
	FileID   string
	PageSize int
	// OnChange receives every new state, outside the session lock.
	OnChange func(State)
	// Notify receives failures the user should see.
	Notify func(Notification)
	Logger *slog.Logger

	newID func() string
	now   func() time.Time
}

// Session owns the conversation state for one document and applies
// optimistic updates around each send.
type Session struct {
	api      API
	fileID   string
	pageSize int
	onChange func(State)
	notify   func(Notification)
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time

	mu            sync.Mutex
	state         State
	refreshCancel context.CancelFunc
	refreshGen    uint64
}

// NewSession creates a session with an empty state.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &Session{
		api:      cfg.API,
		fileID:   cfg.FileID,
		pageSize: pageSize,
		onChange: cfg.OnChange,
		notify:   cfg.Notify,
		logger:   logger.With("component", "chat_session", "file_id", cfg.FileID),
		newID:    cfg.newID,
		now:      cfg.now,
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInput updates the draft text.
func (s *Session) SetInput(text string) {
	s.update(func(st State) State {
		return State{Pages: clonePages(st.Pages), Input: text, Loading: st.Loading}
	})
}

// Refresh replaces the message list with the newest page from the server.
// A refresh superseded by a send or a later refresh returns
// context.Canceled and leaves the state untouched. Refresh is a no-op
// while a send is in flight.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return nil
	}
	s.cancelRefreshLocked()
	rctx, cancel := context.WithCancel(ctx)
	s.refreshGen++
	gen := s.refreshGen
	s.refreshCancel = cancel
	s.mu.Unlock()
	defer cancel()

	page, err := s.api.ListMessages(rctx, s.fileID, s.pageSize, "")

	s.mu.Lock()
	if gen != s.refreshGen || s.state.Loading {
		s.mu.Unlock()
		return context.Canceled
	}
	s.refreshCancel = nil
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = Replace(s.state, []Page{page})
	st := s.state
	s.mu.Unlock()

	s.changed(st)
	return nil
}

// LoadMore appends the next older page, if there is one.
func (s *Session) LoadMore(ctx context.Context) error {
	cursor := s.State().NextCursor()
	if cursor == nil {
		return nil
	}
	page, err := s.api.ListMessages(ctx, s.fileID, s.pageSize, *cursor)
	if err != nil {
		return err
	}
	s.update(func(st State) State {
		// Drop the page if a refresh or send replaced the list meanwhile.
		if next := st.NextCursor(); next == nil || *next != *cursor {
			return st
		}
		return AppendPage(st, page)
	})
	return nil
}

// Send asks a question. The question shows up immediately, the answer
// grows as deltas arrive, and once the stream ends the list is refetched
// from the server. On failure the state returns to what it was before
// the send, with text restored to the input, and a notification fires.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return ErrSendInProgress
	}
	s.cancelRefreshLocked()
	s.refreshGen++
	next, snap := BeginSend(s.state, text, s.newID(), s.now())
	s.state = next
	s.mu.Unlock()
	s.changed(next)

	fail := func(err error) error {
		s.mu.Lock()
		s.state = Rollback(snap)
		st := s.state
		s.mu.Unlock()
		s.changed(st)

		s.logger.Warn("send failed", "error", err)
		s.emit(Notification{Title: "Something went wrong", Detail: err.Error()})
		return err
	}

	stream, err := s.api.SendMessage(ctx, s.fileID, text)
	if err != nil {
		return fail(err)
	}
	defer func() { _ = stream.Close() }()

	var acc strings.Builder
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}
		acc.WriteString(delta)
		answer := acc.String()
		s.update(func(st State) State { return ApplyDelta(st, answer, s.now()) })
	}

	s.update(Settle)
	if err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("refetch after send failed", "error", err)
	}
	return nil
}

func (s *Session) cancelRefreshLocked() {
	if s.refreshCancel != nil {
		s.refreshCancel()
		s.refreshCancel = nil
	}
}

func (s *Session) update(fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	st := s.state
	s.mu.Unlock()
	s.changed(st)
}

func (s *Session) changed(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

func (s *Session) emit(n Notification) {
	if s.notify != nil {
		s.notify(n)
	}
}

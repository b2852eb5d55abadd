package domain

import "time"

const (
	// DefaultMessagePageSize is used when a page request omits limit.
	DefaultMessagePageSize = 10
	// MaxMessagePageSize caps the page size a client may request.
	MaxMessagePageSize = 100
)

// Message is one chat turn about a document.
type Message struct {
	ID            string    `json:"id"`
	FileID        string    `json:"file_id"`
	UserID        string    `json:"user_id"`
	Text          string    `json:"text"`
	IsUserMessage bool      `json:"is_user_message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MessagePage is one page of messages, newest first.
type MessagePage struct {
	Messages   []*Message `json:"messages"`
	NextCursor *string    `json:"next_cursor"`
}

// ChatTurn is a prior exchange fed to the answer engine as history.
type ChatTurn struct {
	IsUserMessage bool
	Text          string
}

// SendMessageRequest is a user question about a document.
type SendMessageRequest struct {
	FileID  string `json:"fileId"`
	Message string `json:"message"`
}

// Validate checks both fields are non-empty.
func (r *SendMessageRequest) Validate() error {
	if r.FileID == "" || r.Message == "" {
		return ErrInvalidInput
	}
	return nil
}

// ClampPageSize normalises a requested page size into [1, MaxMessagePageSize].
func ClampPageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultMessagePageSize
	case limit > MaxMessagePageSize:
		return MaxMessagePageSize
	default:
		return limit
	}
}

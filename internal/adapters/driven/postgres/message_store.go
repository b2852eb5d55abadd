package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MessageStore = (*MessageStore)(nil)

const messageColumns = `id, file_id, user_id, text, is_user_message, created_at, updated_at`

// MessageStore implements driven.MessageStore using PostgreSQL
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Save inserts a message
func (s *MessageStore) Save(ctx context.Context, msg *domain.Message) error {
	query := `INSERT INTO messages (` + messageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.FileID,
		NullString(msg.UserID),
		msg.Text,
		msg.IsUserMessage,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	return err
}

// listPageQuery returns the keyset query for a page. With a cursor the
// row-value comparison selects rows strictly after the cursor message in
// (updated_at DESC, id DESC) order.
func listPageQuery(withCursor bool) string {
	if !withCursor {
		return `
			SELECT ` + messageColumns + `
			FROM messages
			WHERE file_id = $1
			ORDER BY updated_at DESC, id DESC
			LIMIT $2`
	}
	return `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE file_id = $1
		  AND (updated_at, id) < (SELECT updated_at, id FROM messages WHERE id = $3 AND file_id = $1)
		ORDER BY updated_at DESC, id DESC
		LIMIT $2`
}

// ListPage returns up to limit+1 messages after the cursor
func (s *MessageStore) ListPage(ctx context.Context, fileID string, limit int, cursor string) ([]*domain.Message, error) {
	args := []any{fileID, limit + 1}
	if cursor != "" {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1 AND file_id = $2)`, cursor, fileID,
		).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrInvalidInput
		}
		args = append(args, cursor)
	}

	rows, err := s.db.QueryContext(ctx, listPageQuery(cursor != ""), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows, limit+1)
}

// Recent returns the newest n messages in chronological order
func (s *MessageStore) Recent(ctx context.Context, fileID string, n int) ([]*domain.Message, error) {
	query := `
		SELECT * FROM (
			SELECT ` + messageColumns + `
			FROM messages
			WHERE file_id = $1
			ORDER BY updated_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY updated_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, fileID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows, n)
}

func scanMessages(rows *sql.Rows, capacity int) ([]*domain.Message, error) {
	msgs := make([]*domain.Message, 0, capacity)
	for rows.Next() {
		var msg domain.Message
		var userID sql.NullString
		if err := rows.Scan(
			&msg.ID,
			&msg.FileID,
			&userID,
			&msg.Text,
			&msg.IsUserMessage,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				break
			}
			return nil, err
		}
		msg.UserID = userID.String
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

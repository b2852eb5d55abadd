package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

const documentColumns = `id, key, name, url, user_id, upload_status, failure_reason, page_count, created_at, updated_at`

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Create inserts a document; a duplicate key returns domain.ErrAlreadyExists
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Key,
		doc.Name,
		doc.URL,
		doc.UserID,
		string(doc.UploadStatus),
		NullString(string(doc.FailureReason)),
		doc.PageCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(s.db.QueryRowContext(ctx, query, id))
}

// GetByKey retrieves a document by storage key
func (s *DocumentStore) GetByKey(ctx context.Context, key string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE key = $1`
	return scanDocument(s.db.QueryRowContext(ctx, query, key))
}

// ListByUser retrieves a user's documents, newest first
func (s *DocumentStore) ListByUser(ctx context.Context, userID string) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateStatus persists a status transition
func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, status domain.UploadStatus, reason domain.FailureReason, pageCount int) error {
	query := `
		UPDATE documents
		SET upload_status = $2, failure_reason = $3, page_count = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, string(status), NullString(string(reason)), pageCount)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// FailStale moves documents stuck in PROCESSING since before cutoff to FAILED
func (s *DocumentStore) FailStale(ctx context.Context, cutoff time.Time) ([]*domain.Document, error) {
	query := `
		UPDATE documents
		SET upload_status = 'FAILED', failure_reason = $2, updated_at = NOW()
		WHERE upload_status = 'PROCESSING' AND updated_at < $1
		RETURNING ` + documentColumns

	rows, err := s.db.QueryContext(ctx, query, cutoff, string(domain.FailureInterrupted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document; its messages cascade
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var reason sql.NullString

	err := row.Scan(
		&doc.ID,
		&doc.Key,
		&doc.Name,
		&doc.URL,
		&doc.UserID,
		&status,
		&reason,
		&doc.PageCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.UploadStatus = domain.UploadStatus(status)
	doc.FailureReason = domain.FailureReason(reason.String)
	return &doc, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package domain

import "time"

// UploadStatus is the ingestion state of an uploaded document.
type UploadStatus string

const (
	// UploadStatusPending is reported when no document row exists yet for a key.
	// It is never persisted.
	UploadStatusPending    UploadStatus = "PENDING"
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusSuccess    UploadStatus = "SUCCESS"
	UploadStatusFailed     UploadStatus = "FAILED"
)

// IsTerminal reports whether no further transition is expected.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusSuccess || s == UploadStatusFailed
}

// FailureReason records why an ingestion ended in FAILED.
type FailureReason string

const (
	FailureNone          FailureReason = ""
	FailureLoadFailed    FailureReason = "load_failed"
	FailureQuotaExceeded FailureReason = "quota_exceeded"
	FailureIndexFailed   FailureReason = "index_failed"
	FailureInterrupted   FailureReason = "interrupted"
)

// Document represents an uploaded PDF and its ingestion state
type Document struct {
	ID            string        `json:"id"`
	Key           string        `json:"key"` // storage key, unique per upload
	Name          string        `json:"name"`
	URL           string        `json:"url"`
	UserID        string        `json:"user_id"`
	UploadStatus  UploadStatus  `json:"upload_status"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
	PageCount     int           `json:"page_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// FileRef identifies an upload handed to ingestion by the storage layer.
type FileRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PageSegment is the extracted text of one PDF page.
type PageSegment struct {
	PageNumber int    `json:"page_number"` // 1-based
	Text       string `json:"text"`
}

// DocumentStatusEvent is published on every status transition.
type DocumentStatusEvent struct {
	DocumentID    string        `json:"document_id"`
	Key           string        `json:"key"`
	UserID        string        `json:"user_id"`
	Status        UploadStatus  `json:"status"`
	FailureReason FailureReason `json:"failure_reason,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// StatusEvent builds the event describing the document's current state.
func (d *Document) StatusEvent() *DocumentStatusEvent {
	return &DocumentStatusEvent{
		DocumentID:    d.ID,
		Key:           d.Key,
		UserID:        d.UserID,
		Status:        d.UploadStatus,
		FailureReason: d.FailureReason,
		OccurredAt:    d.UpdatedAt,
	}
}

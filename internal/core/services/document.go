package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

const (
	defaultDownloadURLExpiry = 24 * time.Hour
	pdfContentType           = "application/pdf"
)

// documentService implements the DocumentService interface
type documentService struct {
	documents    driven.DocumentStore
	blobs        driven.BlobStore
	index        driven.VectorIndex
	queue        driven.TaskQueue
	entitlements driven.EntitlementProvider
	quota        *QuotaEnforcer
	urlExpiry    time.Duration
	logger       *slog.Logger
}

// DocumentConfig holds dependencies for the document service.
type DocumentConfig struct {
	Documents    driven.DocumentStore
	Blobs        driven.BlobStore
	Index        driven.VectorIndex
	Queue        driven.TaskQueue
	Entitlements driven.EntitlementProvider
	Quota        *QuotaEnforcer
	URLExpiry    time.Duration
	Logger       *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentConfig) driving.DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = defaultDownloadURLExpiry
	}
	return &documentService{
		documents:    cfg.Documents,
		blobs:        cfg.Blobs,
		index:        cfg.Index,
		queue:        cfg.Queue,
		entitlements: cfg.Entitlements,
		quota:        cfg.Quota,
		urlExpiry:    cfg.URLExpiry,
		logger:       logger.With("component", "documents"),
	}
}

// Upload stores the PDF under a fresh key and enqueues its ingestion
func (s *documentService) Upload(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error) {
	if userID == "" || name == "" || size <= 0 {
		return nil, domain.ErrInvalidInput
	}

	ent, err := s.entitlements.Entitlement(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve entitlement: %w", err)
	}
	if !s.quota.AllowSize(size, ent) {
		return nil, fmt.Errorf("%w: %d bytes exceeds %s plan limit", domain.ErrFileTooLarge, size, s.quota.Plan(ent).Name)
	}

	key := uuid.NewString()
	if err := s.blobs.Put(ctx, key, r, size, pdfContentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	url, err := s.blobs.URL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign upload url: %w", err)
	}

	ref := domain.FileRef{Key: key, Name: name, URL: url}
	if err := s.CompleteUpload(ctx, userID, ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CompleteUpload enqueues ingestion for a stored file
func (s *documentService) CompleteUpload(ctx context.Context, userID string, ref domain.FileRef) error {
	if userID == "" || ref.Key == "" || ref.URL == "" {
		return domain.ErrInvalidInput
	}
	task := domain.NewIngestTask(userID, ref)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue ingestion: %w", err)
	}
	s.logger.Info("ingestion enqueued", "key", ref.Key, "task_id", task.ID, "user_id", userID)
	return nil
}

// Status reports PENDING until the user's document row exists
func (s *documentService) Status(ctx context.Context, userID, id string) (domain.UploadStatus, error) {
	doc, err := s.Get(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UploadStatusPending, nil
	}
	if err != nil {
		return "", err
	}
	return doc.UploadStatus, nil
}

// GetByKey retrieves a document by storage key
func (s *documentService) GetByKey(ctx context.Context, userID, key string) (*domain.Document, error) {
	doc, err := s.documents.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return owned(doc, userID)
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return owned(doc, userID)
}

// List retrieves the user's documents
func (s *documentService) List(ctx context.Context, userID string) ([]*domain.Document, error) {
	return s.documents.ListByUser(ctx, userID)
}

// Delete removes the row first, then the namespace and stored file.
// Cleanup after the row is gone is best effort and only logged.
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger := s.logger.With("document_id", doc.ID, "key", doc.Key)
	if s.index != nil {
		if err := s.index.DeleteNamespace(ctx, doc.ID); err != nil {
			logger.Error("failed to delete vector namespace", "error", err)
		}
	}
	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, doc.Key); err != nil {
			logger.Warn("failed to delete stored file", "error", err)
		}
	}
	logger.Info("document deleted")
	return nil
}

func owned(doc *domain.Document, userID string) (*domain.Document, error) {
	if doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

const (
	defaultIngestLockTTL = 10 * time.Minute
	defaultStaleAfter    = 15 * time.Minute
	statusWriteTimeout   = 10 * time.Second
	ingestLockNamePrefix = "ingest:"
)

// ingestionService drives a document through
// PROCESSING -> SUCCESS | FAILED:
//  1. Return the existing document if the key was already ingested
//  2. Create the document in PROCESSING
//  3. Load page segments
//  4. Enforce the page quota
//  5. Index the segments under the document's namespace
//  6. Mark SUCCESS
//
// Any failure or panic in 3-5 is recorded as FAILED.
type ingestionService struct {
	documents  driven.DocumentStore
	loader     driven.DocumentLoader
	quota      *QuotaEnforcer
	indexer    *Indexer
	index      driven.VectorIndex
	lock       driven.DistributedLock
	events     driven.EventPublisher
	lockTTL    time.Duration
	staleAfter time.Duration
	logger     *slog.Logger
}

// IngestionConfig holds dependencies for the ingestion service.
// Lock and Events are optional.
type IngestionConfig struct {
	Documents  driven.DocumentStore
	Loader     driven.DocumentLoader
	Quota      *QuotaEnforcer
	Indexer    *Indexer
	Index      driven.VectorIndex
	Lock       driven.DistributedLock
	Events     driven.EventPublisher
	LockTTL    time.Duration
	StaleAfter time.Duration
	Logger     *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultIngestLockTTL
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	return &ingestionService{
		documents:  cfg.Documents,
		loader:     cfg.Loader,
		quota:      cfg.Quota,
		indexer:    cfg.Indexer,
		index:      cfg.Index,
		lock:       cfg.Lock,
		events:     cfg.Events,
		lockTTL:    cfg.LockTTL,
		staleAfter: cfg.StaleAfter,
		logger:     logger.With("component", "ingestion"),
	}
}

// Ingest runs the state machine for one upload.
// The returned error only reports infrastructure failures around document
// creation; pipeline failures are persisted as FAILED and return nil.
func (s *ingestionService) Ingest(ctx context.Context, ownerID string, ref domain.FileRef, ent domain.Entitlement) (*domain.Document, error) {
	if ownerID == "" || ref.Key == "" || ref.URL == "" {
		return nil, domain.ErrInvalidInput
	}

	if s.lock != nil {
		name := ingestLockNamePrefix + ref.Key
		acquired, err := s.lock.Acquire(ctx, name, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire ingest lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("%w: %s", domain.ErrLockHeld, name)
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), name); err != nil {
				s.logger.Warn("failed to release ingest lock", "key", ref.Key, "error", err)
			}
		}()
	}

	// Step 1: idempotency by storage key
	existing, err := s.documents.GetByKey(ctx, ref.Key)
	if err == nil {
		s.logger.Info("document already ingested", "key", ref.Key, "document_id", existing.ID, "status", existing.UploadStatus)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup document by key: %w", err)
	}

	// Step 2: create in PROCESSING
	now := time.Now()
	doc := &domain.Document{
		ID:           uuid.NewString(),
		Key:          ref.Key,
		Name:         ref.Name,
		URL:          ref.URL,
		UserID:       ownerID,
		UploadStatus: domain.UploadStatusProcessing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.documents.GetByKey(ctx, ref.Key)
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.publish(ctx, doc)

	logger := s.logger.With("document_id", doc.ID, "key", doc.Key, "user_id", ownerID)
	logger.Info("ingestion started")

	// Steps 3-6
	s.run(ctx, logger, doc, ent)
	return doc, nil
}

// run executes the load, quota and index steps. The deferred block always
// writes a terminal status, including after a panic.
func (s *ingestionService) run(ctx context.Context, logger *slog.Logger, doc *domain.Document, ent domain.Entitlement) {
	started := time.Now()
	status, reason := domain.UploadStatusFailed, domain.FailureInterrupted

	defer func() {
		if r := recover(); r != nil {
			logger.Error("ingestion panicked", "panic", r)
			status, reason = domain.UploadStatusFailed, domain.FailureInterrupted
		}
		s.finish(ctx, logger, doc, status, reason)
		logger.Info("ingestion finished",
			"status", doc.UploadStatus,
			"reason", doc.FailureReason,
			"pages", doc.PageCount,
			"duration_seconds", time.Since(started).Seconds(),
		)
	}()

	// Step 3: load
	pages, err := s.loader.Load(ctx, doc.URL)
	if err != nil {
		logger.Error("failed to load document", "error", err)
		reason = domain.FailureLoadFailed
		return
	}
	doc.PageCount = len(pages)

	// Step 4: quota
	if !s.quota.Allow(len(pages), ent) {
		logger.Warn("page quota exceeded",
			"pages", len(pages),
			"limit", s.quota.Plan(ent).PagesPerPDF,
			"subscribed", ent.IsSubscribed,
		)
		reason = domain.FailureQuotaExceeded
		return
	}

	// Step 5: index
	if err := s.indexer.Index(ctx, doc.ID, pages); err != nil {
		logger.Error("failed to index document", "error", err)
		reason = domain.FailureIndexFailed
		s.dropNamespace(ctx, logger, doc.ID)
		return
	}

	// Step 6
	status, reason = domain.UploadStatusSuccess, domain.FailureNone
}

// finish persists the terminal status on a context that survives caller
// cancellation.
func (s *ingestionService) finish(ctx context.Context, logger *slog.Logger, doc *domain.Document, status domain.UploadStatus, reason domain.FailureReason) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	doc.UploadStatus = status
	doc.FailureReason = reason
	doc.UpdatedAt = time.Now()

	if err := s.documents.UpdateStatus(writeCtx, doc.ID, status, reason, doc.PageCount); err != nil {
		logger.Error("failed to persist terminal status", "status", status, "error", err)
		return
	}
	s.publish(writeCtx, doc)
}

// dropNamespace removes partially indexed vectors. Best effort.
func (s *ingestionService) dropNamespace(ctx context.Context, logger *slog.Logger, namespace string) {
	if s.index == nil {
		return
	}
	if err := s.index.DeleteNamespace(context.WithoutCancel(ctx), namespace); err != nil {
		logger.Warn("failed to drop partial namespace", "error", err)
	}
}

func (s *ingestionService) publish(ctx context.Context, doc *domain.Document) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatus(ctx, doc.StatusEvent()); err != nil {
		s.logger.Warn("failed to publish status event", "document_id", doc.ID, "status", doc.UploadStatus, "error", err)
	}
}

// FailStale marks documents left in PROCESSING longer than the stale window
// as FAILED. A worker crash between creation and the terminal write is the
// only way a document can stay in PROCESSING.
func (s *ingestionService) FailStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.staleAfter)
	docs, err := s.documents.FailStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("fail stale documents: %w", err)
	}
	for _, doc := range docs {
		s.logger.Warn("stale ingestion marked failed", "document_id", doc.ID, "key", doc.Key)
		s.dropNamespace(ctx, s.logger, doc.ID)
		s.publish(ctx, doc)
	}
	return len(docs), nil
}

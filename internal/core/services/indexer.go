package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/runtime"
)

const (
	defaultEmbedBatchSize   = 32
	defaultIndexConcurrency = 4
)

// vectorIDSpace scopes deterministic vector IDs.
var vectorIDSpace = uuid.MustParse("6f2a7a0e-4a6c-5d0b-9a1e-2f4c8b7d3e10")

// Indexer embeds page segments and writes them into a document namespace.
type Indexer struct {
	services    *runtime.Services
	index       driven.VectorIndex
	batchSize   int
	concurrency int
	logger      *slog.Logger
}

// IndexerConfig holds dependencies for Indexer.
type IndexerConfig struct {
	Services    *runtime.Services
	Index       driven.VectorIndex
	BatchSize   int
	Concurrency int
	Logger      *slog.Logger
}

// NewIndexer creates a new Indexer.
func NewIndexer(cfg IndexerConfig) *Indexer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultEmbedBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultIndexConcurrency
	}
	return &Indexer{
		services:    cfg.Services,
		index:       cfg.Index,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// VectorID returns the stable vector identifier for a page of a namespace.
// Re-indexing a namespace overwrites its vectors instead of duplicating them.
func VectorID(namespace string, pageNumber int) string {
	return uuid.NewSHA1(vectorIDSpace, []byte(namespace+"#"+strconv.Itoa(pageNumber))).String()
}

// Index embeds every segment and upserts it into namespace.
// Batches run concurrently; the first embedding or upsert error cancels the
// rest and is returned.
func (ix *Indexer) Index(ctx context.Context, namespace string, segments []domain.PageSegment) error {
	embedder, err := ix.services.Embedder()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)

	for start := 0; start < len(segments); start += ix.batchSize {
		end := min(start+ix.batchSize, len(segments))
		batch := segments[start:end]

		g.Go(func() error {
			return ix.indexBatch(gctx, embedder, namespace, batch)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	ix.logger.Debug("namespace indexed",
		"namespace", namespace,
		"segments", len(segments),
		"model", embedder.Model(),
	)
	return nil
}

func (ix *Indexer) indexBatch(ctx context.Context, embedder driven.EmbeddingService, namespace string, batch []domain.PageSegment) error {
	texts := make([]string, len(batch))
	for i, seg := range batch {
		texts[i] = seg.Text
	}

	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed pages %d-%d: %w", batch[0].PageNumber, batch[len(batch)-1].PageNumber, err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embed pages %d-%d: got %d embeddings for %d segments",
			batch[0].PageNumber, batch[len(batch)-1].PageNumber, len(embeddings), len(batch))
	}

	model := embedder.Model()
	vectors := make([]domain.Vector, len(batch))
	for i, seg := range batch {
		vectors[i] = domain.Vector{
			ID:         VectorID(namespace, seg.PageNumber),
			Values:     embeddings[i],
			PageNumber: seg.PageNumber,
			Text:       seg.Text,
			Model:      model,
		}
	}

	if err := ix.index.Upsert(ctx, namespace, vectors); err != nil {
		return fmt.Errorf("upsert pages %d-%d: %w", batch[0].PageNumber, batch[len(batch)-1].PageNumber, err)
	}
	return nil
}

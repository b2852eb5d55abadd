package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/documentor/internal/core/ports/driving"
)

type documentFixture struct {
	docs  *mocks.MockDocumentStore
	blobs *mocks.MockBlobStore
	index *mocks.MockVectorIndex
	queue *mocks.MockTaskQueue
	users *mocks.MockUserStore
	svc   driving.DocumentService
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		docs:  mocks.NewMockDocumentStore(),
		blobs: mocks.NewMockBlobStore(),
		index: mocks.NewMockVectorIndex(),
		queue: mocks.NewMockTaskQueue(),
		users: mocks.NewMockUserStore(),
	}
	_ = f.users.Save(context.Background(), &domain.User{ID: "user-1", Email: "a@example.com"})
	f.svc = NewDocumentService(DocumentConfig{
		Documents:    f.docs,
		Blobs:        f.blobs,
		Index:        f.index,
		Queue:        f.queue,
		Entitlements: f.users,
		Quota:        NewQuotaEnforcer(domain.DefaultPlans()),
	})
	return f
}

func TestDocumentService_UploadEnqueuesIngestion(t *testing.T) {
	f := newDocumentFixture()
	body := bytes.Repeat([]byte("x"), 1024)

	ref, err := f.svc.Upload(context.Background(), "user-1", "report.pdf", bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	assert.NotEmpty(t, ref.Key)
	assert.Equal(t, "report.pdf", ref.Name)
	assert.True(t, f.blobs.Has(ref.Key))

	pending := f.queue.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.TaskTypeIngestDocument, pending[0].Type)
	assert.Equal(t, "user-1", pending[0].UserID)
	assert.Equal(t, *ref, pending[0].FileRef())
}

func TestDocumentService_UploadSizeByPlan(t *testing.T) {
	f := newDocumentFixture()
	size := int64(5 << 20)

	_, err := f.svc.Upload(context.Background(), "user-1", "big.pdf", bytes.NewReader(make([]byte, size)), size)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.Empty(t, f.queue.Pending())

	f.users.Subscribe("user-1")
	_, err = f.svc.Upload(context.Background(), "user-1", "big.pdf", bytes.NewReader(make([]byte, size)), size)
	assert.NoError(t, err)
}

func TestDocumentService_UploadEnqueueFailure(t *testing.T) {
	f := newDocumentFixture()
	f.queue.EnqueueErr = errors.New("redis down")

	_, err := f.svc.Upload(context.Background(), "user-1", "a.pdf", bytes.NewReader([]byte("x")), 1)
	assert.ErrorContains(t, err, "enqueue ingestion")
}

func TestDocumentService_StatusPendingUntilRowExists(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()

	status, err := f.svc.Status(ctx, "user-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusPending, status)

	f.docs.Put(&domain.Document{ID: "doc-1", Key: "k", UserID: "user-1", UploadStatus: domain.UploadStatusProcessing})
	status, err = f.svc.Status(ctx, "user-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusProcessing, status)

	status, err = f.svc.Status(ctx, "user-2", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStatusPending, status, "other users never see the row")
}

func TestDocumentService_OwnershipScoping(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	f.docs.Put(&domain.Document{ID: "doc-1", Key: "k-1", UserID: "user-1"})

	_, err := f.svc.Get(ctx, "user-2", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetByKey(ctx, "user-2", "k-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	doc, err := f.svc.GetByKey(ctx, "user-1", "k-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)

	docs, err := f.svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentService_DeleteRemovesNamespaceAndBlob(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	f.docs.Put(&domain.Document{ID: "doc-1", Key: "k-1", UserID: "user-1"})
	require.NoError(t, f.blobs.Put(ctx, "k-1", bytes.NewReader([]byte("pdf")), 3, "application/pdf"))
	require.NoError(t, f.index.Upsert(ctx, "doc-1", []domain.Vector{{ID: "v1", PageNumber: 1}}))

	require.NoError(t, f.svc.Delete(ctx, "user-1", "doc-1"))

	_, err := f.docs.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"doc-1"}, f.index.Deleted())
	assert.False(t, f.blobs.Has("k-1"))
}

func TestDocumentService_DeleteNamespaceFailureIsBestEffort(t *testing.T) {
	f := newDocumentFixture()
	f.docs.Put(&domain.Document{ID: "doc-1", Key: "k-1", UserID: "user-1"})
	f.index.DeleteErr = errors.New("index down")

	require.NoError(t, f.svc.Delete(context.Background(), "user-1", "doc-1"))
	assert.Zero(t, f.docs.Count())
}

func TestDocumentService_DeleteForeignDocument(t *testing.T) {
	f := newDocumentFixture()
	f.docs.Put(&domain.Document{ID: "doc-1", Key: "k-1", UserID: "user-1"})

	err := f.svc.Delete(context.Background(), "user-2", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.docs.Count())
}

func TestDocumentService_CompleteUploadValidation(t *testing.T) {
	f := newDocumentFixture()
	err := f.svc.CompleteUpload(context.Background(), "user-1", domain.FileRef{Key: "k"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

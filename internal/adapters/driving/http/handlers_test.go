package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
	"github.com/custodia-labs/documentor/internal/core/ports/driven/mocks"
)

// Mock services for testing

type mockAuthService struct {
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
	syncUserFn      func(ctx context.Context, auth *domain.AuthContext) (*domain.User, error)
	planFn          func(ctx context.Context, userID string) (*domain.SubscriptionPlan, error)
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	if token == "valid" {
		return &domain.AuthContext{UserID: "user-1", Email: "a@example.com"}, nil
	}
	return nil, domain.ErrTokenInvalid
}

func (m *mockAuthService) SyncUser(ctx context.Context, auth *domain.AuthContext) (*domain.User, error) {
	if m.syncUserFn != nil {
		return m.syncUserFn(ctx, auth)
	}
	return &domain.User{ID: auth.UserID, Email: auth.Email}, nil
}

func (m *mockAuthService) Plan(ctx context.Context, userID string) (*domain.SubscriptionPlan, error) {
	if m.planFn != nil {
		return m.planFn(ctx, userID)
	}
	return &domain.SubscriptionPlan{Plan: domain.DefaultPlans().Free}, nil
}

type mockDocumentService struct {
	uploadFn         func(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error)
	completeUploadFn func(ctx context.Context, userID string, ref domain.FileRef) error
	statusFn         func(ctx context.Context, userID, id string) (domain.UploadStatus, error)
	getByKeyFn       func(ctx context.Context, userID, key string) (*domain.Document, error)
	getFn            func(ctx context.Context, userID, id string) (*domain.Document, error)
	listFn           func(ctx context.Context, userID string) ([]*domain.Document, error)
	deleteFn         func(ctx context.Context, userID, id string) error
}

func (m *mockDocumentService) Upload(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, userID, name, r, size)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) CompleteUpload(ctx context.Context, userID string, ref domain.FileRef) error {
	if m.completeUploadFn != nil {
		return m.completeUploadFn(ctx, userID, ref)
	}
	return nil
}

func (m *mockDocumentService) Status(ctx context.Context, userID, id string) (domain.UploadStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, userID, id)
	}
	return domain.UploadStatusPending, nil
}

func (m *mockDocumentService) GetByKey(ctx context.Context, userID, key string) (*domain.Document, error) {
	if m.getByKeyFn != nil {
		return m.getByKeyFn(ctx, userID, key)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(ctx context.Context, userID string) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

type mockChatService struct {
	sendFn func(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error)
	listFn func(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error)
}

func (m *mockChatService) SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, userID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockChatService) ListMessages(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, fileID, limit, cursor)
	}
	return &domain.MessagePage{}, nil
}

type mockPinger struct{ err error }

func (p mockPinger) Ping(ctx context.Context) error { return p.err }

type testDeps struct {
	auth *mockAuthService
	docs *mockDocumentService
	chat *mockChatService
	db   Pinger
}

func newTestServer(t *testing.T, deps *testDeps) *Server {
	t.Helper()
	if deps.auth == nil {
		deps.auth = &mockAuthService{}
	}
	if deps.docs == nil {
		deps.docs = &mockDocumentService{}
	}
	if deps.chat == nil {
		deps.chat = &mockChatService{}
	}
	if deps.db == nil {
		deps.db = mockPinger{}
	}
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, Services{
		Auth:      deps.auth,
		Documents: deps.docs,
		Chat:      deps.chat,
		Webhooks:  mocks.NewMockAuthAdapter(),
	}, deps.db, nil)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer valid")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())
}

func TestHandleReady(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, &testDeps{})
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database down", func(t *testing.T) {
		s := newTestServer(t, &testDeps{db: mockPinger{err: errors.New("connection refused")}})
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "database unavailable", decodeError(t, rec))
	})
}

func TestHandleSwagger(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/messages")
	assert.Contains(t, paths, "/documents/{id}/messages")
}

// Identity endpoints

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, &testDeps{})

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authorization token", decodeError(t, rec))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = do(t, s, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeError(t, rec))
}

func TestAuthExpiredToken(t *testing.T) {
	auth := &mockAuthService{validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
		return nil, domain.ErrTokenExpired
	}}
	s := newTestServer(t, &testDeps{auth: auth})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", decodeError(t, rec))
}

func TestHandleAuthCallback(t *testing.T) {
	var synced *domain.AuthContext
	auth := &mockAuthService{syncUserFn: func(ctx context.Context, a *domain.AuthContext) (*domain.User, error) {
		synced = a
		return &domain.User{ID: a.UserID, Email: a.Email}, nil
	}}
	s := newTestServer(t, &testDeps{auth: auth})

	rec := do(t, s, authedRequest(http.MethodPost, "/api/v1/auth/callback", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, synced)
	assert.Equal(t, "user-1", synced.UserID)

	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "a@example.com", user.Email)
}

func TestHandlePlan(t *testing.T) {
	auth := &mockAuthService{planFn: func(ctx context.Context, userID string) (*domain.SubscriptionPlan, error) {
		assert.Equal(t, "user-1", userID)
		return &domain.SubscriptionPlan{
			Entitlement: domain.Entitlement{IsSubscribed: true},
			Plan:        domain.DefaultPlans().Pro,
		}, nil
	}}
	s := newTestServer(t, &testDeps{auth: auth})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/me/plan", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var plan domain.SubscriptionPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.True(t, plan.IsSubscribed)
	assert.Equal(t, 25, plan.Plan.PagesPerPDF)
}

// Document endpoints

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	var gotName string
	var gotSize int64
	var gotBody []byte
	docs := &mockDocumentService{uploadFn: func(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error) {
		assert.Equal(t, "user-1", userID)
		gotName, gotSize = name, size
		gotBody, _ = io.ReadAll(r)
		return &domain.FileRef{Key: "key-1", Name: name, URL: "https://blob/key-1"}, nil
	}}
	s := newTestServer(t, &testDeps{docs: docs})

	content := []byte("%PDF-1.4 fake")
	body, contentType := multipartBody(t, "file", "report.pdf", content)
	req := authedRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(t, s, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "key-1", resp.Key)
	assert.Equal(t, "report.pdf", gotName)
	assert.Equal(t, int64(len(content)), gotSize)
	assert.Equal(t, content, gotBody)
}

func TestHandleUploadMissingFile(t *testing.T) {
	s := newTestServer(t, &testDeps{})

	body, contentType := multipartBody(t, "other", "report.pdf", []byte("x"))
	req := authedRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(t, s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing file", decodeError(t, rec))
}

func TestHandleUploadTooLarge(t *testing.T) {
	docs := &mockDocumentService{uploadFn: func(ctx context.Context, userID, name string, r io.Reader, size int64) (*domain.FileRef, error) {
		return nil, domain.ErrFileTooLarge
	}}
	s := newTestServer(t, &testDeps{docs: docs})

	body, contentType := multipartBody(t, "file", "big.pdf", []byte("pretend this is 5MB"))
	req := authedRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(t, s, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleUploadComplete(t *testing.T) {
	var gotUser string
	var gotRef domain.FileRef
	docs := &mockDocumentService{completeUploadFn: func(ctx context.Context, userID string, ref domain.FileRef) error {
		gotUser, gotRef = userID, ref
		return nil
	}}
	s := newTestServer(t, &testDeps{docs: docs})
	body := []byte(`{"key":"k1","name":"a.pdf","url":"https://blob/k1","userId":"user-9"}`)

	t.Run("bad signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/complete", bytes.NewReader(body))
		req.Header.Set(signatureHeader, "forged")
		rec := do(t, s, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, gotUser)
	})

	t.Run("signed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/complete", bytes.NewReader(body))
		req.Header.Set(signatureHeader, mocks.NewMockAuthAdapter().SignWebhook(body))
		rec := do(t, s, req)
		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "user-9", gotUser)
		assert.Equal(t, domain.FileRef{Key: "k1", Name: "a.pdf", URL: "https://blob/k1"}, gotRef)
	})
}

func TestHandleListDocumentsEmpty(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleGetDocumentByKey(t *testing.T) {
	docs := &mockDocumentService{getByKeyFn: func(ctx context.Context, userID, key string) (*domain.Document, error) {
		if key == "known" {
			return &domain.Document{ID: "doc-1", Key: key, UploadStatus: domain.UploadStatusProcessing}, nil
		}
		return nil, domain.ErrNotFound
	}}
	s := newTestServer(t, &testDeps{docs: docs})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/uploads/unknown/document", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, authedRequest(http.MethodGet, "/api/v1/uploads/known/document", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc.ID)
}

func TestHandleDocumentStatus(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents/doc-1/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"PENDING"}`, rec.Body.String())
}

func TestHandleDeleteDocument(t *testing.T) {
	var deleted string
	docs := &mockDocumentService{deleteFn: func(ctx context.Context, userID, id string) error {
		if id == "missing" {
			return domain.ErrNotFound
		}
		deleted = id
		return nil
	}}
	s := newTestServer(t, &testDeps{docs: docs})

	rec := do(t, s, authedRequest(http.MethodDelete, "/api/v1/documents/doc-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "doc-1", deleted)

	rec = do(t, s, authedRequest(http.MethodDelete, "/api/v1/documents/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleInternalErrorHidesDetail(t *testing.T) {
	docs := &mockDocumentService{listFn: func(ctx context.Context, userID string) ([]*domain.Document, error) {
		return nil, errors.New("pq: password authentication failed")
	}}
	s := newTestServer(t, &testDeps{docs: docs})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

// Chat endpoints

func TestHandleListMessages(t *testing.T) {
	next := "m-3"
	var gotLimit int
	var gotCursor string
	chat := &mockChatService{listFn: func(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error) {
		assert.Equal(t, "doc-1", fileID)
		gotLimit, gotCursor = limit, cursor
		return &domain.MessagePage{
			Messages:   []*domain.Message{{ID: "m-4", Text: "hi"}, {ID: "m-3", Text: "there"}},
			NextCursor: &next,
		}, nil
	}}
	s := newTestServer(t, &testDeps{chat: chat})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents/doc-1/messages?limit=2&cursor=m-5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotLimit)
	assert.Equal(t, "m-5", gotCursor)

	var resp MessagePageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, "m-3", *resp.NextCursor)
	assert.Contains(t, rec.Body.String(), `"nextCursor":"m-3"`)
}

func TestHandleListMessagesBadInput(t *testing.T) {
	chat := &mockChatService{listFn: func(ctx context.Context, userID, fileID string, limit int, cursor string) (*domain.MessagePage, error) {
		return nil, domain.ErrInvalidInput
	}}
	s := newTestServer(t, &testDeps{chat: chat})

	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents/doc-1/messages?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid limit", decodeError(t, rec))

	rec = do(t, s, authedRequest(http.MethodGet, "/api/v1/documents/doc-1/messages?cursor=gone", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListMessagesLastPage(t *testing.T) {
	s := newTestServer(t, &testDeps{})
	rec := do(t, s, authedRequest(http.MethodGet, "/api/v1/documents/doc-1/messages", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[],"nextCursor":null}`, rec.Body.String())
}

func TestHandleSendMessageStreams(t *testing.T) {
	var gotReq domain.SendMessageRequest
	chat := &mockChatService{sendFn: func(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error) {
		gotReq = req
		return mocks.NewMockLLMService("Hel", "lo", " world").Stream(ctx, &domain.Prompt{})
	}}
	s := newTestServer(t, &testDeps{chat: chat})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/messages", strings.NewReader(`{"fileId":"doc-1","message":"what?"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer valid")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(body))
	assert.Empty(t, resp.Trailer.Get(streamErrorTrailer))
	assert.Equal(t, domain.SendMessageRequest{FileID: "doc-1", Message: "what?"}, gotReq)
}

func TestHandleSendMessageMidStreamFailure(t *testing.T) {
	chat := &mockChatService{sendFn: func(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error) {
		llm := mocks.NewMockLLMService("partial")
		llm.FailWith = domain.ErrStreamFailed
		return llm.Stream(ctx, &domain.Prompt{})
	}}
	s := newTestServer(t, &testDeps{chat: chat})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/messages", strings.NewReader(`{"fileId":"doc-1","message":"q"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer valid")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "partial", string(body))
	assert.Equal(t, domain.ErrStreamFailed.Error(), resp.Trailer.Get(streamErrorTrailer))
}

func TestHandleSendMessageErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"empty message", `{"fileId":"doc-1"}`, domain.ErrInvalidInput, http.StatusBadRequest},
		{"unknown document", `{"fileId":"x","message":"q"}`, domain.ErrNotFound, http.StatusNotFound},
		{"retrieval down", `{"fileId":"doc-1","message":"q"}`, domain.ErrRetrieval, http.StatusBadGateway},
		{"document processing", `{"fileId":"doc-1","message":"q"}`, fmt.Errorf("%w: status PROCESSING", domain.ErrDocumentNotReady), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mockChatService{sendFn: func(ctx context.Context, userID string, req domain.SendMessageRequest) (driven.TokenStream, error) {
				return nil, tt.err
			}}
			s := newTestServer(t, &testDeps{chat: chat})

			rec := do(t, s, authedRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrAlreadyExists, http.StatusConflict},
		{domain.ErrDocumentNotReady, http.StatusUnprocessableEntity},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrQuotaExceeded, http.StatusForbidden},
		{domain.ErrRetrieval, http.StatusBadGateway},
		{domain.ErrStreamFailed, http.StatusBadGateway},
		{domain.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := errors.Join(errors.New("context"), tt.err)
			assert.Equal(t, tt.want, statusFor(tt.err))
			assert.Equal(t, tt.want, statusFor(wrapped))
		})
	}
}

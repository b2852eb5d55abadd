package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

const (
	// DefaultPollInterval is the delay between WaitForDocument lookups.
	DefaultPollInterval = 500 * time.Millisecond

	// StreamErrorTrailer carries a failure that happened mid-answer.
	StreamErrorTrailer = "X-Stream-Error"

	apiPrefix = "/api/v1"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code back onto a domain error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	case http.StatusUnprocessableEntity:
		return domain.ErrDocumentNotReady
	case http.StatusRequestEntityTooLarge:
		return domain.ErrFileTooLarge
	case http.StatusBadGateway:
		return domain.ErrStreamFailed
	case http.StatusServiceUnavailable:
		return domain.ErrServiceUnavailable
	default:
		return nil
	}
}

// ClientConfig configures an API client.
type ClientConfig struct {
	BaseURL      string
	Token        string
	HTTPClient   *http.Client
	PollInterval time.Duration
}

// Client talks to the documentor HTTP API.
type Client struct {
	baseURL      string
	token        string
	http         *http.Client
	pollInterval time.Duration
}

var _ API = (*Client)(nil)

// NewClient creates a new API client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.Token,
		http:         httpClient,
		pollInterval: poll,
	}
}

// UploadResult is the accepted upload.
type UploadResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Upload sends a PDF as multipart form data.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/documents", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Documents lists the caller's documents.
func (c *Client) Documents(ctx context.Context) ([]*domain.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents", nil)
	if err != nil {
		return nil, err
	}
	var out []*domain.Document
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Document returns one document by ID.
func (c *Client) Document(ctx context.Context, id string) (*domain.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var out domain.Document
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DocumentByKey returns the document for a storage key, or an error
// matching domain.ErrNotFound until ingestion creates it.
func (c *Client) DocumentByKey(ctx context.Context, key string) (*domain.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/uploads/"+url.PathEscape(key)+"/document", nil)
	if err != nil {
		return nil, err
	}
	var out domain.Document
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForDocument polls until the document row for key exists.
func (c *Client) WaitForDocument(ctx context.Context, key string) (*domain.Document, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		doc, err := c.DocumentByKey(ctx, key)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Status returns a document's ingestion status.
func (c *Client) Status(ctx context.Context, id string) (domain.UploadStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/status", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Status domain.UploadStatus `json:"status"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// ListMessages fetches one page of history, newest first.
func (c *Client) ListMessages(ctx context.Context, fileID string, limit int, cursor string) (Page, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	path := "/documents/" + url.PathEscape(fileID) + "/messages"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Page{}, err
	}
	var out struct {
		Messages   []*domain.Message `json:"messages"`
		NextCursor *string           `json:"nextCursor"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return Page{}, err
	}

	page := Page{NextCursor: out.NextCursor}
	for _, m := range out.Messages {
		page.Entries = append(page.Entries, Entry{
			ID:            m.ID,
			Text:          m.Text,
			IsUserMessage: m.IsUserMessage,
			UpdatedAt:     m.UpdatedAt,
			Provenance:    Persisted,
		})
	}
	return page, nil
}

// SendMessage asks a question and returns the answer stream.
func (c *Client) SendMessage(ctx context.Context, fileID, text string) (TextStream, error) {
	body, err := json.Marshal(domain.SendMessageRequest{FileID: fileID, Message: text})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeAPIError(resp)
	}
	return &answerStream{resp: resp, buf: make([]byte, 4096)}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// answerStream yields answer text as it arrives. Chunks are cut on rune
// boundaries so multi-byte characters are never split across deltas.
type answerStream struct {
	resp   *http.Response
	buf    []byte
	carry  []byte
	done   bool
	closed bool
}

func (s *answerStream) Recv() (string, error) {
	for !s.done {
		n, err := s.resp.Body.Read(s.buf)
		if n > 0 {
			data := append(s.carry, s.buf[:n]...)
			cut := validPrefix(data)
			s.carry = append([]byte(nil), data[cut:]...)
			if cut > 0 {
				return string(data[:cut]), nil
			}
		}
		if errors.Is(err, io.EOF) {
			s.done = true
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrStreamFailed, err)
		}
	}

	// Trailers are populated once the body is fully read.
	if msg := s.resp.Trailer.Get(StreamErrorTrailer); msg != "" {
		return "", fmt.Errorf("%w: %s", domain.ErrStreamFailed, msg)
	}
	if len(s.carry) > 0 {
		rest := string(s.carry)
		s.carry = nil
		return rest, nil
	}
	return "", io.EOF
}

func (s *answerStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Body.Close()
}

// validPrefix returns the length of the longest prefix of b that does not
// end inside a multi-byte rune.
func validPrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return len(b)
		}
		return i
	}
	return len(b)
}

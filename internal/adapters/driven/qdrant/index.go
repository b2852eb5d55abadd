package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*Index)(nil)

const (
	defaultCollection = "documentor_pages"
	defaultTimeout    = 15 * time.Second
	namespaceField    = "namespace"
)

// Config configures the Qdrant REST client
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Index implements VectorIndex on one Qdrant collection. Namespaces are a
// keyword payload field, so per-document isolation is a filter on every
// query and delete.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// New creates a Qdrant index client
func New(cfg Config) *Index {
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// EnsureCollection creates the collection with cosine distance and a
// namespace payload index. Existing collections are left alone.
func (x *Index) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return errors.New("invalid dimension")
	}

	status, err := x.do(ctx, http.MethodGet, x.collectionPath(""), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{"size": dimensions, "distance": "Cosine"},
	}
	if _, err := x.do(ctx, http.MethodPut, x.collectionPath(""), body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	index := map[string]any{"field_name": namespaceField, "field_schema": "keyword"}
	if _, err := x.do(ctx, http.MethodPut, x.collectionPath("/index?wait=true"), index, nil); err != nil {
		return fmt.Errorf("create namespace index: %w", err)
	}
	return nil
}

// Upsert writes vectors into the namespace
func (x *Index) Upsert(ctx context.Context, namespace string, vectors []domain.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	points := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		points[i] = map[string]any{
			"id":     v.ID,
			"vector": v.Values,
			"payload": map[string]any{
				namespaceField: namespace,
				"page_number":  v.PageNumber,
				"text":         v.Text,
				"model":        v.Model,
			},
		}
	}
	_, err := x.do(ctx, http.MethodPut, x.collectionPath("/points?wait=true"), map[string]any{"points": points}, nil)
	return err
}

type searchResponse struct {
	Result []struct {
		ID      any     `json:"id"`
		Score   float64 `json:"score"`
		Payload struct {
			PageNumber int    `json:"page_number"`
			Text       string `json:"text"`
			Model      string `json:"model"`
		} `json:"payload"`
	} `json:"result"`
}

// Query returns the k most similar segments in the namespace
func (x *Index) Query(ctx context.Context, namespace string, embedding []float32, k int) ([]domain.RetrievedSegment, error) {
	req := map[string]any{
		"vector":       embedding,
		"limit":        k,
		"with_payload": true,
		"filter":       namespaceFilter(namespace),
	}
	var resp searchResponse
	if _, err := x.do(ctx, http.MethodPost, x.collectionPath("/points/search"), req, &resp); err != nil {
		return nil, err
	}

	segments := make([]domain.RetrievedSegment, 0, len(resp.Result))
	for _, r := range resp.Result {
		segments = append(segments, domain.RetrievedSegment{
			ID:         fmt.Sprint(r.ID),
			PageNumber: r.Payload.PageNumber,
			Text:       r.Payload.Text,
			Score:      r.Score,
			Model:      r.Payload.Model,
		})
	}
	return segments, nil
}

// DeleteNamespace removes every point of the namespace
func (x *Index) DeleteNamespace(ctx context.Context, namespace string) error {
	body := map[string]any{"filter": namespaceFilter(namespace)}
	_, err := x.do(ctx, http.MethodPost, x.collectionPath("/points/delete?wait=true"), body, nil)
	return err
}

// HealthCheck verifies Qdrant is reachable
func (x *Index) HealthCheck(ctx context.Context) error {
	_, err := x.do(ctx, http.MethodGet, x.url+"/readyz", nil, nil)
	return err
}

func namespaceFilter(namespace string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": namespaceField, "match": map[string]any{"value": namespace}},
		},
	}
}

func (x *Index) collectionPath(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", x.url, x.collection, suffix)
}

// do sends a JSON request and decodes the body into out when given.
// The HTTP status is returned even on error.
func (x *Index) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal qdrant request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return resp.StatusCode, fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

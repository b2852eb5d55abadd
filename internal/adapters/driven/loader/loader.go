// Package loader fetches uploaded PDFs and splits them into page segments.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentLoader = (*PDFLoader)(nil)

// Config configures the PDF loader
type Config struct {
	// MaxBytes caps the download; larger files fail to load
	MaxBytes int64
	Timeout  time.Duration
	Client   *http.Client
	Logger   *slog.Logger
}

// PDFLoader downloads a PDF and extracts the text of every page.
type PDFLoader struct {
	maxBytes int64
	client   *http.Client
	conf     *model.Configuration
	logger   *slog.Logger
}

// NewPDFLoader creates a loader
func NewPDFLoader(cfg Config) *PDFLoader {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * units.MiB
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &PDFLoader{
		maxBytes: cfg.MaxBytes,
		client:   cfg.Client,
		conf:     conf,
		logger:   cfg.Logger,
	}
}

// Load fetches url and returns one segment per page, in page order.
func (l *PDFLoader) Load(ctx context.Context, url string) ([]domain.PageSegment, error) {
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return l.Parse(data)
}

// Parse splits an in-memory PDF into page segments. pdfcpu validates the
// file and counts pages; text is decoded per page with its fonts.
func (l *PDFLoader) Parse(data []byte) ([]domain.PageSegment, error) {
	doc, err := api.ReadAndValidate(bytes.NewReader(data), l.conf)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	texts, err := pageTexts(data, doc.PageCount, func(page int, err error) {
		l.logger.Debug("page text unavailable", "page", page, "error", err)
	})
	if err != nil {
		return nil, err
	}

	segments := make([]domain.PageSegment, 0, doc.PageCount)
	for page := 1; page <= doc.PageCount; page++ {
		segments = append(segments, domain.PageSegment{
			PageNumber: page,
			Text:       texts[page-1],
		})
	}
	return segments, nil
}

func (l *PDFLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch pdf: status %d", resp.StatusCode)
	}
	if resp.ContentLength > l.maxBytes {
		return nil, fmt.Errorf("fetch pdf: %s exceeds %s: %w",
			units.BytesSize(float64(resp.ContentLength)), units.BytesSize(float64(l.maxBytes)), domain.ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("fetch pdf: larger than %s: %w", units.BytesSize(float64(l.maxBytes)), domain.ErrFileTooLarge)
	}
	return data, nil
}

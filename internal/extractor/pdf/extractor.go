// Package pdf extracts plain text from PDF documents, fetched over HTTP or
// read from the local filesystem. It implements the domain.Extractor
// interface; extraction failures wrap domain.ErrExtraction so callers can
// surface them before optimization runs.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/observability"
)

// maxDocumentBytes bounds the download size. Papers run a few MB; anything
// larger is either not a paper or not worth summarizing whole.
const maxDocumentBytes = 64 << 20

// Config contains extractor settings.
type Config struct {
	Timeout int `env:"EXTRACTOR_TIMEOUT" envDefault:"30"` // seconds, per download
}

// Extractor retrieves and parses PDF documents.
type Extractor struct {
	httpClient *http.Client
}

// Ensure Extractor implements domain.Extractor.
var _ domain.Extractor = (*Extractor)(nil)

// NewExtractor creates a PDF extractor.
func NewExtractor(config Config) *Extractor {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Extract returns the text of the PDF at source. source may be an http(s)
// URL or a local file path.
func (e *Extractor) Extract(ctx context.Context, source string) (*domain.Document, error) {
	logger := observability.FromContext(ctx)

	var (
		reader *pdf.Reader
		closer io.Closer
		err    error
	)

	if isURL(source) {
		reader, err = e.openRemote(ctx, source)
	} else {
		var file *os.File
		file, reader, err = pdf.Open(source)
		closer = file
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, source, err)
	}
	if closer != nil {
		defer func() {
			_ = closer.Close()
		}()
	}

	var builder strings.Builder
	pages := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			// Individual pages with broken encodings are skipped, not fatal.
			logger.Warn("failed to extract page text",
				observability.Int("page", pageNum),
				observability.Error(pageErr))
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
		pages++
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return nil, fmt.Errorf("%w: %s: no extractable text", domain.ErrExtraction, source)
	}

	logger.Info("extracted document text",
		observability.Int("pages", pages),
		observability.Int("text_length", len(text)))

	return &domain.Document{
		Source:      source,
		Text:        text,
		Pages:       pages,
		ExtractedAt: time.Now(),
	}, nil
}

// openRemote downloads the PDF into memory and opens a reader over it.
func (e *Extractor) openRemote(ctx context.Context, url string) (*pdf.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return reader, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inklight-ai/condense/internal/domain"
)

type fakeExtractor struct {
	doc   *domain.Document
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*domain.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type memoryCache struct {
	docs    map[string]*domain.Document
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{docs: make(map[string]*domain.Document)}
}

func (c *memoryCache) Get(_ context.Context, source string) (*domain.Document, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	doc, ok := c.docs[source]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return doc, nil
}

func (c *memoryCache) Set(_ context.Context, doc *domain.Document, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.docs[doc.Source] = doc
	c.lastTTL = ttl
	return nil
}

func TestExtract_EmptySource(t *testing.T) {
	service := domain.NewExtractService(&fakeExtractor{}, nil, time.Hour)

	_, err := service.Extract(context.Background(), "")

	require.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_CachesResult(t *testing.T) {
	doc := &domain.Document{Source: "paper.pdf", Text: "extracted text", Pages: 3}
	extractor := &fakeExtractor{doc: doc}
	cache := newMemoryCache()
	service := domain.NewExtractService(extractor, cache, time.Hour)
	ctx := context.Background()

	first, err := service.Extract(ctx, "paper.pdf")
	require.NoError(t, err)
	require.Equal(t, doc, first)
	require.Equal(t, time.Hour, cache.lastTTL)

	second, err := service.Extract(ctx, "paper.pdf")
	require.NoError(t, err)
	require.Equal(t, doc, second)

	require.Equal(t, 1, extractor.calls)
}

func TestExtract_NilCacheAlwaysExtracts(t *testing.T) {
	extractor := &fakeExtractor{doc: &domain.Document{Source: "paper.pdf", Text: "text"}}
	service := domain.NewExtractService(extractor, nil, time.Hour)
	ctx := context.Background()

	_, err := service.Extract(ctx, "paper.pdf")
	require.NoError(t, err)
	_, err = service.Extract(ctx, "paper.pdf")
	require.NoError(t, err)

	require.Equal(t, 2, extractor.calls)
}

func TestExtract_CacheFailureIsNotFatal(t *testing.T) {
	doc := &domain.Document{Source: "paper.pdf", Text: "text"}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	service := domain.NewExtractService(&fakeExtractor{doc: doc}, cache, time.Hour)

	got, err := service.Extract(context.Background(), "paper.pdf")
	require.NoError(t, err)

	require.Equal(t, doc, got)
}

func TestExtract_WrapsExtractorError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("file not found")}
	service := domain.NewExtractService(extractor, nil, time.Hour)

	_, err := service.Extract(context.Background(), "missing.pdf")

	require.ErrorIs(t, err, domain.ErrExtraction)
	require.ErrorContains(t, err, "file not found")
}

func TestExtract_EmptyDocumentText(t *testing.T) {
	extractor := &fakeExtractor{doc: &domain.Document{Source: "scanned.pdf", Text: ""}}
	service := domain.NewExtractService(extractor, nil, time.Hour)

	_, err := service.Extract(context.Background(), "scanned.pdf")

	require.ErrorIs(t, err, domain.ErrExtraction)
}

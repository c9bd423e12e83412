package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inklight-ai/condense/internal/observability"
)

// ExtractService retrieves document text through an extractor, caching
// results by source so repeated requests for the same paper skip the slow
// download-and-parse step.
type ExtractService struct {
	extractor Extractor
	cache     DocumentCache
	ttl       time.Duration
}

// NewExtractService creates an extract service. cache may be nil, in which
// case every call hits the extractor.
func NewExtractService(extractor Extractor, cache DocumentCache, ttl time.Duration) *ExtractService {
	return &ExtractService{
		extractor: extractor,
		cache:     cache,
		ttl:       ttl,
	}
}

// Extract returns the document text for source, from cache when possible.
func (s *ExtractService) Extract(ctx context.Context, source string) (*Document, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: source cannot be empty", ErrExtraction)
	}

	ctx = observability.WithSource(ctx, source)
	logger := observability.FromContext(ctx)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, source)
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			logger.Warn("document cache get failed, continuing without cache",
				observability.Error(err))
		}
		if cached != nil {
			logger.Info("document cache HIT",
				observability.Int("text_length", len(cached.Text)))
			return cached, nil
		}
		logger.Info("document cache MISS")
	}

	doc, err := s.extractor.Extract(ctx, source)
	if err != nil {
		if errors.Is(err, ErrExtraction) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if doc.Text == "" {
		return nil, fmt.Errorf("%w: no text extracted from %s", ErrExtraction, source)
	}

	if s.cache != nil {
		if setErr := s.cache.Set(ctx, doc, s.ttl); setErr != nil {
			logger.Warn("failed to store document in cache",
				observability.Error(setErr))
		}
	}

	return doc, nil
}

package domain_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inklight-ai/condense/internal/domain"
)

type fakeSummarizer struct {
	summary   string
	err       error
	calls     int
	gotText   string
	gotTarget int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, targetTokens int) (string, error) {
	f.calls++
	f.gotText = text
	f.gotTarget = targetTokens
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type capturePublisher struct {
	eventTypes []string
	payloads   []map[string]interface{}
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, data map[string]interface{}) {
	p.eventTypes = append(p.eventTypes, eventType)
	p.payloads = append(p.payloads, data)
}

func newTestOptimizer(t *testing.T, summarizer domain.Summarizer, events domain.EventPublisher) *domain.Optimizer {
	t.Helper()

	estimator := domain.NewCostEstimator(wordCounter{}, newTestPricing(t), "gpt-4o")
	return domain.NewOptimizer(wordCounter{}, estimator, summarizer, events, 6000)
}

func TestOptimize_Validation(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)
	ctx := context.Background()

	t.Run("nil request", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, nil)
		require.Error(t, err)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Strategy:  "truncate",
			MaxTokens: 100,
		})
		require.ErrorIs(t, err, domain.ErrEmptyText)
	})

	t.Run("zero budget", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      "some text",
			Strategy:  "truncate",
			MaxTokens: 0,
		})
		require.ErrorIs(t, err, domain.ErrInvalidBudget)
	})

	t.Run("negative budget", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      "some text",
			Strategy:  "chunk",
			MaxTokens: -5,
		})
		require.ErrorIs(t, err, domain.ErrInvalidBudget)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      "some text",
			Strategy:  "minify",
			MaxTokens: 100,
		})
		require.ErrorIs(t, err, domain.ErrUnknownStrategy)
	})

	t.Run("none is not requestable", func(t *testing.T) {
		_, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      "some text",
			Strategy:  "none",
			MaxTokens: 100,
		})
		require.ErrorIs(t, err, domain.ErrUnknownStrategy)
	})
}

func TestOptimize_WithinBudgetUnchanged(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := "a handful of words well inside the budget"

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "truncate",
		MaxTokens: 100,
	})
	require.NoError(t, err)

	require.Equal(t, "none", result.Strategy)
	require.Equal(t, text, result.Text)
	require.Zero(t, result.TokenReduction)
	require.Zero(t, result.ReductionPercentage)
	require.Zero(t, result.CostSavings)
}

func TestOptimize_WithinBudgetChunkReturnsSingleChunk(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := "short text that fits"

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "chunk",
		MaxTokens: 100,
	})
	require.NoError(t, err)

	require.Equal(t, "none", result.Strategy)
	require.Equal(t, []string{text}, result.Chunks)
	require.Equal(t, 1, result.ChunkCount)
}

func TestOptimize_Truncate(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := strings.Repeat("steady stream of prose without structure. ", 100)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "truncate",
		MaxTokens: 100,
	})
	require.NoError(t, err)

	require.Equal(t, "truncate", result.Strategy)
	require.Equal(t, 600, result.OriginalTokens)
	require.LessOrEqual(t, result.OptimizedTokens, 100)
	require.GreaterOrEqual(t, result.ReductionPercentage, 75.0)
	require.Greater(t, result.CostSavings, 0.0)
	require.False(t, result.UsedModel)
}

func TestOptimize_TruncateIdempotent(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)
	ctx := context.Background()

	text := strings.Repeat("steady stream of prose without structure. ", 100)

	first, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "truncate",
		MaxTokens: 100,
	})
	require.NoError(t, err)

	second, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
		Text:      first.Text,
		Strategy:  "truncate",
		MaxTokens: 100,
	})
	require.NoError(t, err)

	require.Equal(t, "none", second.Strategy)
	require.Equal(t, first.Text, second.Text)
}

func TestOptimize_SectionsKeepsRecognizedContent(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      paperText,
		Strategy:  "sections",
		MaxTokens: 25,
	})
	require.NoError(t, err)

	require.Equal(t, "sections", result.Strategy)
	require.Contains(t, result.Text, "**Abstract")
	require.LessOrEqual(t, result.OptimizedTokens, 25)
}

func TestOptimize_SectionsFallbackOnUnstructuredText(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := strings.Repeat("no headings anywhere in this flat stream of words ", 30)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "sections",
		MaxTokens: 40,
	})
	require.NoError(t, err)

	require.Equal(t, "truncate (fallback)", result.Strategy)
	require.LessOrEqual(t, result.OptimizedTokens, 40)
}

func TestOptimize_ChunkIsLossless(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := strings.Repeat("chunked prose with separators. More of it here!\n\n", 20)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "chunk",
		MaxTokens: 30,
	})
	require.NoError(t, err)

	require.Equal(t, "chunk", result.Strategy)
	require.Greater(t, result.ChunkCount, 1)
	require.Equal(t, text, strings.Join(result.Chunks, ""))
	require.Zero(t, result.TokenReduction)
	for _, chunk := range result.Chunks {
		require.LessOrEqual(t, wordCounter{}.CountTokens(chunk), 30)
	}
}

func TestOptimize_SmartExtractiveAvoidsModelCall(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "unused"}
	optimizer := newTestOptimizer(t, summarizer, nil)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      paperText,
		Strategy:  "smart",
		MaxTokens: 45,
	})
	require.NoError(t, err)

	require.Equal(t, "smart", result.Strategy)
	require.False(t, result.UsedModel)
	require.Zero(t, summarizer.calls)
	require.Contains(t, result.Text, "**Abstract")
}

func TestOptimize_SmartCallsSummarizer(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "a compact summary of the document"}
	optimizer := newTestOptimizer(t, summarizer, nil)

	text := strings.Repeat("long unstructured prose with nothing to extract from it whatsoever ", 50)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "smart",
		MaxTokens: 40,
	})
	require.NoError(t, err)

	require.Equal(t, "smart", result.Strategy)
	require.True(t, result.UsedModel)
	require.Equal(t, summarizer.summary, result.Text)
	require.Equal(t, 1, summarizer.calls)
	require.Equal(t, 40, summarizer.gotTarget)
	require.NotEmpty(t, summarizer.gotText)
}

func TestOptimize_SmartClampsOverlongSummary(t *testing.T) {
	summarizer := &fakeSummarizer{summary: strings.Repeat("verbose model output ", 50)}
	optimizer := newTestOptimizer(t, summarizer, nil)

	text := strings.Repeat("long unstructured prose with nothing to extract from it whatsoever ", 50)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "smart",
		MaxTokens: 20,
	})
	require.NoError(t, err)

	require.LessOrEqual(t, result.OptimizedTokens, 20)
}

func TestOptimize_SmartFailsClosedOnProviderError(t *testing.T) {
	summarizer := &fakeSummarizer{err: fmt.Errorf("%w: upstream unavailable", domain.ErrProvider)}
	optimizer := newTestOptimizer(t, summarizer, nil)

	text := strings.Repeat("long unstructured prose with nothing to extract from it whatsoever ", 50)

	_, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "smart",
		MaxTokens: 40,
	})

	require.ErrorIs(t, err, domain.ErrProvider)
}

func TestOptimize_SmartBestEffortFallsBackToTruncation(t *testing.T) {
	summarizer := &fakeSummarizer{err: fmt.Errorf("%w: upstream unavailable", domain.ErrProvider)}
	optimizer := newTestOptimizer(t, summarizer, nil)

	text := strings.Repeat("long unstructured prose with nothing to extract from it whatsoever ", 50)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:       text,
		Strategy:   "smart",
		MaxTokens:  40,
		BestEffort: true,
	})
	require.NoError(t, err)

	require.Equal(t, "truncate (fallback)", result.Strategy)
	require.LessOrEqual(t, result.OptimizedTokens, 40)
	require.False(t, result.UsedModel)
}

func TestOptimize_SmartWithoutSummarizer(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	text := strings.Repeat("long unstructured prose with nothing to extract from it whatsoever ", 50)

	t.Run("fails closed", func(t *testing.T) {
		_, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
			Text:      text,
			Strategy:  "smart",
			MaxTokens: 40,
		})
		require.ErrorIs(t, err, domain.ErrProvider)
	})

	t.Run("best effort truncates", func(t *testing.T) {
		result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
			Text:       text,
			Strategy:   "smart",
			MaxTokens:  40,
			BestEffort: true,
		})
		require.NoError(t, err)
		require.Equal(t, "truncate (fallback)", result.Strategy)
	})
}

func TestOptimize_AutoSelection(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)
	ctx := context.Background()

	t.Run("within budget", func(t *testing.T) {
		result, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      "a few words",
			Strategy:  "auto",
			MaxTokens: 100,
		})
		require.NoError(t, err)
		require.Equal(t, "none", result.Strategy)
	})

	t.Run("moderate overage extracts sections", func(t *testing.T) {
		result, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      paperText,
			Strategy:  "auto",
			MaxTokens: 40,
		})
		require.NoError(t, err)
		require.Equal(t, "sections", result.Strategy)
	})

	t.Run("large overage truncates", func(t *testing.T) {
		text := strings.Repeat("far too many words for the budget to ever hold. ", 100)
		result, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      text,
			Strategy:  "auto",
			MaxTokens: 50,
		})
		require.NoError(t, err)
		require.Equal(t, "truncate", result.Strategy)
	})

	t.Run("smart band degrades to truncate without summarizer", func(t *testing.T) {
		text := strings.Repeat("unstructured filler words here ", 60)
		result, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      text,
			Strategy:  "auto",
			MaxTokens: 100,
		})
		require.NoError(t, err)
		require.Equal(t, "truncate", result.Strategy)
		require.LessOrEqual(t, result.OptimizedTokens, 100)
	})
}

func TestOptimize_AutoStaysWithinBudget(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)
	ctx := context.Background()

	for _, repeats := range []int{10, 50, 200, 1000} {
		text := strings.Repeat("plain filler words in a row ", repeats)

		result, err := optimizer.Optimize(ctx, &domain.OptimizeRequest{
			Text:      text,
			Strategy:  "auto",
			MaxTokens: 60,
		})
		require.NoError(t, err)
		require.LessOrEqual(t, result.OptimizedTokens, 60, "repeats=%d", repeats)
	}
}

func TestOptimize_PublishesCompletionEvent(t *testing.T) {
	events := &capturePublisher{}
	optimizer := newTestOptimizer(t, nil, events)

	text := strings.Repeat("words to reduce down to the budget. ", 50)

	result, err := optimizer.Optimize(context.Background(), &domain.OptimizeRequest{
		Text:      text,
		Strategy:  "truncate",
		MaxTokens: 50,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"optimization.completed"}, events.eventTypes)
	require.Equal(t, result.Strategy, events.payloads[0]["strategy"])
	require.Equal(t, result.OriginalTokens, events.payloads[0]["original_tokens"])
}

func TestOptimizer_EstimateCost(t *testing.T) {
	optimizer := newTestOptimizer(t, nil, nil)

	estimate, err := optimizer.EstimateCost(context.Background(), "ten words of text right here to count exactly now")
	require.NoError(t, err)

	require.Equal(t, 10, estimate.InputTokens)
	require.Equal(t, 3, estimate.EstimatedOutputTokens)
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inklight-ai/condense/internal/observability"
)

const percentScale = 100.0

// OptimizeRequest carries one optimization call's inputs.
type OptimizeRequest struct {
	Text      string `json:"text"`
	Strategy  string `json:"strategy"`
	MaxTokens int    `json:"max_tokens"`

	// BestEffort returns a truncated result instead of failing when the smart
	// strategy's provider call errors. Off by default: calls fail closed.
	BestEffort bool `json:"best_effort,omitempty"`
}

// fallbackLabel marks results produced by truncation after another strategy
// could not apply.
const fallbackLabel = "truncate (fallback)"

type strategyOutcome struct {
	label     string
	text      string
	chunks    []string
	usedModel bool
}

type strategyFunc func(ctx context.Context, text string, maxTokens int, bestEffort bool) (*strategyOutcome, error)

// Optimizer reduces document text to fit a token budget and reports the
// achieved savings. Stateless between calls; safe for concurrent use.
type Optimizer struct {
	counter          TokenCounter
	estimator        *CostEstimator
	summarizer       Summarizer
	events           EventPublisher
	smartInputBudget int
	strategies       map[Strategy]strategyFunc
}

// NewOptimizer creates an optimizer. summarizer and events may be nil; without
// a summarizer the smart strategy fails closed (or falls back in best-effort
// mode) and auto selection degrades to truncate.
func NewOptimizer(
	counter TokenCounter,
	estimator *CostEstimator,
	summarizer Summarizer,
	events EventPublisher,
	smartInputBudget int,
) *Optimizer {
	o := &Optimizer{
		counter:          counter,
		estimator:        estimator,
		summarizer:       summarizer,
		events:           events,
		smartInputBudget: smartInputBudget,
		strategies:       nil,
	}

	o.strategies = map[Strategy]strategyFunc{
		StrategyTruncate: o.truncateStrategy,
		StrategySections: o.sectionsStrategy,
		StrategyChunk:    o.chunkStrategy,
		StrategySmart:    o.smartStrategy,
	}

	return o
}

// EstimateCost reports token counts and estimated request cost for text.
func (o *Optimizer) EstimateCost(ctx context.Context, text string) (*CostEstimate, error) {
	return o.estimator.Estimate(ctx, text)
}

// Optimize validates the request, resolves the strategy, and dispatches to
// the matching reduction. Inputs already within budget are returned unchanged.
func (o *Optimizer) Optimize(ctx context.Context, req *OptimizeRequest) (*OptimizationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.Text == "" {
		return nil, fmt.Errorf("cannot optimize: %w", ErrEmptyText)
	}

	if req.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, req.MaxTokens)
	}

	strategy, err := ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithStrategy(ctx, string(strategy))
	logger := observability.FromContext(ctx)

	originalTokens := o.counter.CountTokens(req.Text)
	originalCost, err := o.estimator.Estimate(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("cost estimation: %w", err)
	}

	resolved := strategy
	if strategy == StrategyAuto {
		resolved = SelectStrategy(originalTokens, req.MaxTokens)
		if resolved == StrategySmart && o.summarizer == nil {
			logger.Warn("no summarization provider configured, degrading auto selection to truncate")
			resolved = StrategyTruncate
		}
		logger.Info("auto strategy selected",
			observability.String("resolved", string(resolved)),
			observability.Int("input_tokens", originalTokens),
			observability.Int("max_tokens", req.MaxTokens))
	}

	// Input already fits the budget: no reduction needed.
	if resolved == StrategyNone || originalTokens <= req.MaxTokens {
		outcome := &strategyOutcome{label: string(StrategyNone), text: req.Text}
		if resolved == StrategyChunk {
			outcome.text = ""
			outcome.chunks = []string{req.Text}
		}
		return o.buildResult(ctx, originalTokens, originalCost, outcome), nil
	}

	apply, ok := o.strategies[resolved]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, resolved)
	}

	// Chunking must reproduce the input on concatenation, so it skips the
	// cleaner; every reducing strategy benefits from noise removal first.
	input := req.Text
	if resolved != StrategyChunk {
		if cleaned := CleanText(req.Text); cleaned != "" {
			input = cleaned
		}
	}

	outcome, err := apply(ctx, input, req.MaxTokens, req.BestEffort)
	if err != nil {
		return nil, err
	}

	result := o.buildResult(ctx, originalTokens, originalCost, outcome)

	logger.Info("optimization completed",
		observability.String("applied", result.Strategy),
		observability.Int("original_tokens", result.OriginalTokens),
		observability.Int("optimized_tokens", result.OptimizedTokens),
		observability.Float64("reduction_pct", result.ReductionPercentage))

	return result, nil
}

func (o *Optimizer) truncateStrategy(_ context.Context, text string, maxTokens int, _ bool) (*strategyOutcome, error) {
	return &strategyOutcome{
		label: string(StrategyTruncate),
		text:  TruncateToBudget(o.counter, text, maxTokens),
	}, nil
}

func (o *Optimizer) sectionsStrategy(_ context.Context, text string, maxTokens int, _ bool) (*strategyOutcome, error) {
	sections := ExtractSections(text)
	joined := JoinSections(sections)
	if joined == "" {
		return &strategyOutcome{
			label: fallbackLabel,
			text:  TruncateToBudget(o.counter, text, maxTokens),
		}, nil
	}

	return &strategyOutcome{
		label: string(StrategySections),
		text:  TruncateToBudget(o.counter, joined, maxTokens),
	}, nil
}

func (o *Optimizer) chunkStrategy(_ context.Context, text string, maxTokens int, _ bool) (*strategyOutcome, error) {
	chunks := NewChunker(o.counter, maxTokens).Split(text)
	return &strategyOutcome{
		label:  string(StrategyChunk),
		chunks: chunks,
	}, nil
}

func (o *Optimizer) smartStrategy(ctx context.Context, text string, maxTokens int, bestEffort bool) (*strategyOutcome, error) {
	logger := observability.FromContext(ctx)

	// Extractive path first: joined key sections that already fit the budget
	// avoid a model call entirely.
	if joined := JoinSections(ExtractSections(text)); joined != "" {
		if o.counter.CountTokens(joined) <= maxTokens {
			return &strategyOutcome{label: string(StrategySmart), text: joined}, nil
		}
	}

	if o.summarizer == nil {
		if bestEffort {
			logger.Warn("no summarization provider, falling back to truncation")
			return o.truncateFallback(text, maxTokens), nil
		}
		return nil, fmt.Errorf("smart strategy: %w: no summarization provider configured", ErrProvider)
	}

	// Cap the prompt so the summarization request itself stays affordable.
	input := TruncateToBudget(o.counter, text, o.smartInputBudget)

	summary, err := o.summarizer.Summarize(ctx, input, maxTokens)
	if err != nil {
		if bestEffort {
			logger.Warn("summarization failed, falling back to truncation",
				observability.Error(err))
			return o.truncateFallback(text, maxTokens), nil
		}
		return nil, fmt.Errorf("smart strategy: %w", err)
	}

	// The model may overrun the requested length; clamp to the budget.
	summary = TruncateToBudget(o.counter, summary, maxTokens)

	return &strategyOutcome{
		label:     string(StrategySmart),
		text:      summary,
		usedModel: true,
	}, nil
}

func (o *Optimizer) truncateFallback(text string, maxTokens int) *strategyOutcome {
	return &strategyOutcome{
		label: fallbackLabel,
		text:  TruncateToBudget(o.counter, text, maxTokens),
	}
}

func (o *Optimizer) buildResult(
	ctx context.Context,
	originalTokens int,
	originalCost *CostEstimate,
	outcome *strategyOutcome,
) *OptimizationResult {
	optimizedText := outcome.text
	if len(outcome.chunks) > 0 {
		optimizedText = strings.Join(outcome.chunks, "")
	}

	optimizedTokens := o.counter.CountTokens(optimizedText)

	reduction := originalTokens - optimizedTokens
	reductionPct := 0.0
	if originalTokens > 0 {
		reductionPct = float64(reduction) / float64(originalTokens) * percentScale
	}

	optimizedCost, err := o.estimator.Estimate(ctx, optimizedText)
	if err != nil {
		// Empty optimized text prices at zero.
		optimizedCost = &CostEstimate{}
	}

	result := &OptimizationResult{
		Strategy:            outcome.label,
		Text:                outcome.text,
		Chunks:              outcome.chunks,
		ChunkCount:          len(outcome.chunks),
		OriginalTokens:      originalTokens,
		OptimizedTokens:     optimizedTokens,
		TokenReduction:      reduction,
		ReductionPercentage: reductionPct,
		OriginalCost:        originalCost,
		OptimizedCost:       optimizedCost,
		CostSavings:         originalCost.TotalCost - optimizedCost.TotalCost,
		UsedModel:           outcome.usedModel,
	}

	if o.events != nil {
		o.events.Publish(ctx, "optimization.completed", map[string]interface{}{
			"strategy":         result.Strategy,
			"original_tokens":  result.OriginalTokens,
			"optimized_tokens": result.OptimizedTokens,
			"reduction_pct":    result.ReductionPercentage,
			"used_model":       result.UsedModel,
		})
	}

	return result
}

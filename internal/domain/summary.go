package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inklight-ai/condense/internal/observability"
)

// summaryPrompt frames the final summarization request sent to the provider.
//
//nolint:gochecknoglobals // Static prompt template
var summaryPrompt = strings.TrimSpace(`
Please create a concise summary of this document that preserves the most important information.
Focus on: research objectives, methodology, key findings, and conclusions.
Target length: approximately %TARGET% tokens.

Text to summarize:
`)

// SummaryService routes summarization requests to a provider by model and
// attaches cost accounting to the response.
type SummaryService struct {
	registry       ProviderRegistry
	costCalculator CostCalculator
	model          string
}

// NewSummaryService creates a new summary service (DI constructor).
func NewSummaryService(registry ProviderRegistry, costCalculator CostCalculator, model string) *SummaryService {
	return &SummaryService{
		registry:       registry,
		costCalculator: costCalculator,
		model:          model,
	}
}

// Summarize returns an abstractive summary of text constrained to
// targetTokens. Implements the Summarizer interface used by the optimizer's
// smart strategy.
func (s *SummaryService) Summarize(ctx context.Context, text string, targetTokens int) (string, error) {
	resp, err := s.SummarizeDocument(ctx, text, targetTokens)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SummarizeDocument sends text to the configured model and returns the full
// response including usage and cost. No retry is attempted; rate-limit
// handling belongs to the caller.
func (s *SummaryService) SummarizeDocument(
	ctx context.Context,
	text string,
	targetTokens int,
) (*CompletionResponse, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot summarize: %w", ErrEmptyText)
	}

	if targetTokens <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, targetTokens)
	}

	ctx = observability.WithModel(ctx, s.model)
	logger := observability.FromContext(ctx)

	provider, err := s.registry.GetByModel(ctx, s.model)
	if err != nil {
		return nil, fmt.Errorf("provider routing failed: %w: %w", ErrProvider, err)
	}

	prompt := strings.Replace(summaryPrompt, "%TARGET%", strconv.Itoa(targetTokens), 1) + "\n" + text

	req := &CompletionRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens: targetTokens,
	}

	response, err := provider.Complete(ctx, req)
	if err != nil {
		logger.Error("summarization request failed", observability.Error(err))
		if errors.Is(err, ErrProvider) {
			return nil, fmt.Errorf("summarization failed: %w", err)
		}
		return nil, fmt.Errorf("summarization failed: %w: %w", ErrProvider, err)
	}

	// Calculate cost in domain layer
	cost, _ := s.costCalculator.Calculate(ctx, response.Model, response.Usage)
	response.Usage.Cost = cost

	logger.Info("summarization succeeded",
		observability.Int("prompt_tokens", response.Usage.PromptTokens),
		observability.Int("completion_tokens", response.Usage.CompletionTokens),
		observability.Float64("cost", cost))

	return response, nil
}

// Model returns the model requests are routed to.
func (s *SummaryService) Model() string {
	return s.model
}

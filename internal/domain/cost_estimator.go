package domain

import (
	"context"
	"fmt"
)

const (
	// Expected completion size as a share of the prompt, capped. Summaries of
	// long documents do not grow with the input.
	outputTokenShare = 0.3
	outputTokenCap   = 4000
)

// CostEstimator predicts the cost of sending text to the configured model
// before any request is made.
type CostEstimator struct {
	counter TokenCounter
	pricing PricingRegistry
	model   string
}

// NewCostEstimator creates a cost estimator for the given model.
func NewCostEstimator(counter TokenCounter, pricing PricingRegistry, model string) *CostEstimator {
	return &CostEstimator{
		counter: counter,
		pricing: pricing,
		model:   model,
	}
}

// Estimate counts tokens in text and derives the expected request cost.
// Output size is estimated at 30% of the input, capped at 4000 tokens.
func (e *CostEstimator) Estimate(ctx context.Context, text string) (*CostEstimate, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot estimate cost: %w", ErrEmptyText)
	}

	inputTokens := e.counter.CountTokens(text)

	outputTokens := int(float64(inputTokens) * outputTokenShare)
	if outputTokens > outputTokenCap {
		outputTokens = outputTokenCap
	}

	// Unpriced models estimate at zero cost, matching the calculator.
	rates, err := e.pricing.GetPricing(ctx, e.model)
	if err != nil {
		rates = ModelPricing{}
	}

	inputCost := float64(inputTokens) / tokensToPerK * rates.InputCostPer1K
	outputCost := float64(outputTokens) / tokensToPerK * rates.OutputCostPer1K

	return &CostEstimate{
		InputTokens:           inputTokens,
		EstimatedOutputTokens: outputTokens,
		InputCost:             inputCost,
		OutputCost:            outputCost,
		TotalCost:             inputCost + outputCost,
	}, nil
}

// Model returns the model the estimator prices against.
func (e *CostEstimator) Model() string {
	return e.model
}

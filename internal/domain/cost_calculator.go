package domain

import (
	"context"
	"errors"

	"github.com/inklight-ai/condense/internal/observability"
)

const tokensToPerK = 1000.0

// UsageCostCalculator prices recorded token usage against the pricing
// registry. It backs the cost figures attached to summarization responses.
type UsageCostCalculator struct {
	pricing PricingRegistry
}

// NewUsageCostCalculator creates a calculator backed by registry.
func NewUsageCostCalculator(registry PricingRegistry) *UsageCostCalculator {
	return &UsageCostCalculator{pricing: registry}
}

// Calculate returns the dollar cost of usage for model. Models without a
// rate card cost zero; anything served by the extractive provider is free.
func (c *UsageCostCalculator) Calculate(ctx context.Context, model string, usage Usage) (float64, error) {
	if model == "" {
		return 0, errors.New("model cannot be empty")
	}

	rates, err := c.pricing.GetPricing(ctx, model)
	if err != nil {
		if errors.Is(err, ErrNoPricing) {
			observability.FromContext(ctx).Debug("no rate card for model, costing zero",
				observability.String("model", model))
			return 0, nil
		}
		return 0, err
	}

	inputCost := float64(usage.PromptTokens) / tokensToPerK * rates.InputCostPer1K
	outputCost := float64(usage.CompletionTokens) / tokensToPerK * rates.OutputCostPer1K

	return inputCost + outputCost, nil
}

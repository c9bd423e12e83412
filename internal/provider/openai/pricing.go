package openai

import (
	"context"
	"fmt"

	"github.com/inklight-ai/condense/internal/domain"
)

const (
	// GPT-4o pricing per 1K tokens
	gpt4oInputCostPer1K  = 0.0025
	gpt4oOutputCostPer1K = 0.01

	// GPT-4o mini pricing per 1K tokens
	gpt4oMiniInputCostPer1K  = 0.00015
	gpt4oMiniOutputCostPer1K = 0.0006

	// GPT-4 Turbo pricing per 1K tokens
	gpt4TurboInputCostPer1K  = 0.01
	gpt4TurboOutputCostPer1K = 0.03

	// GPT-3.5 Turbo pricing per 1K tokens
	gpt35TurboInputCostPer1K  = 0.0005
	gpt35TurboOutputCostPer1K = 0.0015
)

// modelPricing holds pricing for every supported model; it doubles as the
// supported-model list for routing.
//
//nolint:gochecknoglobals // Static pricing table
var modelPricing = map[string]domain.ModelPricing{
	"gpt-4o": {
		InputCostPer1K:  gpt4oInputCostPer1K,
		OutputCostPer1K: gpt4oOutputCostPer1K,
	},
	"gpt-4o-mini": {
		InputCostPer1K:  gpt4oMiniInputCostPer1K,
		OutputCostPer1K: gpt4oMiniOutputCostPer1K,
	},
	"gpt-4-turbo": {
		InputCostPer1K:  gpt4TurboInputCostPer1K,
		OutputCostPer1K: gpt4TurboOutputCostPer1K,
	},
	"gpt-3.5-turbo": {
		InputCostPer1K:  gpt35TurboInputCostPer1K,
		OutputCostPer1K: gpt35TurboOutputCostPer1K,
	},
}

// RegisterPricing registers OpenAI model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	for model, rates := range modelPricing {
		if err := registry.RegisterPricing(ctx, model, rates); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}

	return nil
}

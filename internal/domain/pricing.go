package domain

import "context"

// ModelPricing is the rate card for one model, in USD per thousand tokens.
// Savings reported by the optimizer are the difference between estimates
// computed from these rates.
type ModelPricing struct {
	InputCostPer1K  float64
	OutputCostPer1K float64
}

// CostCalculator turns recorded token usage into a dollar amount.
type CostCalculator interface {
	Calculate(ctx context.Context, model string, usage Usage) (float64, error)
}

// PricingRegistry maps model names to rate cards. Rates are registered once
// at startup by each provider package.
type PricingRegistry interface {
	// GetPricing returns the rate card for model, or an error wrapping
	// ErrNoPricing when none is registered.
	GetPricing(ctx context.Context, model string) (ModelPricing, error)

	// RegisterPricing stores the rate card for model.
	RegisterPricing(ctx context.Context, model string, rates ModelPricing) error
}

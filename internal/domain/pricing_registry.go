package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// InMemoryPricingRegistry holds the rate cards registered at startup. Reads
// vastly outnumber writes, so a plain RWMutex over a map is enough.
type InMemoryPricingRegistry struct {
	mu    sync.RWMutex
	rates map[string]ModelPricing
}

// NewInMemoryPricingRegistry creates an empty pricing registry.
func NewInMemoryPricingRegistry() *InMemoryPricingRegistry {
	return &InMemoryPricingRegistry{
		rates: make(map[string]ModelPricing),
	}
}

// GetPricing returns the rate card for model. Models without one (the
// extractive fallback, test doubles) yield ErrNoPricing; callers decide
// whether that means free or fatal.
func (r *InMemoryPricingRegistry) GetPricing(_ context.Context, model string) (ModelPricing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rates, ok := r.rates[model]
	if !ok {
		return ModelPricing{}, fmt.Errorf("%w: %s", ErrNoPricing, model)
	}

	return rates, nil
}

// RegisterPricing stores the rate card for model, replacing any earlier one.
func (r *InMemoryPricingRegistry) RegisterPricing(_ context.Context, model string, rates ModelPricing) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rates[model] = rates
	return nil
}

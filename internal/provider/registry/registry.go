// Package registry routes completion requests to one of the configured
// providers by model name. The service ships with at most two providers
// (OpenAI and the extractive fallback), each serving a fixed model list,
// so routing is a lookup in an index built at registration time.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/inklight-ai/condense/internal/domain"
)

// Registry implements domain.ProviderRegistry.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]domain.Provider
	byModel map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]domain.Provider),
		byModel: make(map[string]string),
	}
}

// Register adds provider and indexes every model it serves. A model may be
// served by exactly one provider; registering a second claim is an error.
func (r *Registry) Register(ctx context.Context, provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	models := provider.SupportedModels(ctx)
	for _, model := range models {
		if owner, claimed := r.byModel[model]; claimed {
			return fmt.Errorf("model %s already served by provider %s", model, owner)
		}
	}

	r.byName[name] = provider
	for _, model := range models {
		r.byModel[model] = name
	}

	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(_ context.Context, providerName string) (domain.Provider, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.byName[providerName]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}

	return provider, nil
}

// List returns the names of all registered providers.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}

	return names, nil
}

// GetByModel resolves the provider serving model via the index built at
// registration. The model set is fixed at startup, so a miss means the
// model is simply not deployed here.
func (r *Registry) GetByModel(_ context.Context, model string) (domain.Provider, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, exists := r.byModel[model]
	if !exists {
		return nil, fmt.Errorf("no provider found for model: %s", model)
	}

	return r.byName[name], nil
}

package domain

import (
	"context"
	"time"
)

// TokenCounter counts tokens the way the target LLM family's tokenizer would.
// Implementations must be safe for concurrent use.
type TokenCounter interface {
	// CountTokens returns the token count for the given text.
	CountTokens(text string) int
}

// Provider represents any LLM provider.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string

	// IsModelSupported checks if the provider supports the given model.
	IsModelSupported(ctx context.Context, model string) bool

	// SupportedModels returns a list of all models this provider supports.
	SupportedModels(ctx context.Context) []string
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// GetByModel retrieves a provider that supports the given model.
	GetByModel(ctx context.Context, model string) (Provider, error)

	// List returns all available providers.
	List(ctx context.Context) ([]string, error)
}

// Summarizer produces an abstractive summary constrained to a token budget.
// Used by the smart strategy and for final document summarization.
type Summarizer interface {
	// Summarize returns a summary of text no longer than targetTokens.
	Summarize(ctx context.Context, text string, targetTokens int) (string, error)
}

// Extractor retrieves raw text from a document source (URL or file path).
type Extractor interface {
	// Extract returns the document text for the given source.
	Extract(ctx context.Context, source string) (*Document, error)
}

// DocumentCache stores extracted documents keyed by source.
type DocumentCache interface {
	// Get returns the cached document for source, or ErrCacheMiss.
	Get(ctx context.Context, source string) (*Document, error)

	// Set stores the document with the given TTL.
	Set(ctx context.Context, doc *Document, ttl time.Duration) error
}

// RelatedFinder recommends papers related to the one at source.
type RelatedFinder interface {
	// Related returns up to limit recommendations for the paper at source,
	// or an error wrapping ErrRelated.
	Related(ctx context.Context, source string, limit int) ([]RelatedPaper, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

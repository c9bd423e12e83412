// Package extractive provides a deterministic provider that summarizes by
// keeping leading sentences of the input. It implements the domain.Provider
// interface without external API calls, giving development and tests a
// predictable stand-in for a generative model.
package extractive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/observability"
)

// ModelName is the model identifier this provider serves. Deployments
// without a generative provider route summaries here.
const ModelName = "extract-1"

const (
	providerName = "extractive"

	// Words kept per token of budget. Word-count tokens undercount BPE
	// tokens, so stay conservative.
	wordsPerToken = 0.75
)

// Provider implements the domain.Provider interface with leading-sentence
// extraction.
type Provider struct {
	name            string
	supportedModels map[string]bool
}

// NewProvider creates a new extractive provider. No configuration is required
// as this provider operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{
		name: providerName,
		supportedModels: map[string]bool{
			ModelName: true,
		},
	}
}

// Complete returns a completion whose content is the leading words of the
// request's last message, bounded by the request's MaxTokens.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.supportedModels[req.Model] {
		return nil, fmt.Errorf("model %s is not supported by extractive provider", req.Model)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("building extractive summary")

	source := lastMessageContent(req.Messages)
	budget := req.MaxTokens
	if budget <= 0 {
		budget = len(strings.Fields(source))
	}

	content := leadingWords(source, int(float64(budget)*wordsPerToken))

	promptTokens := countWords(source)
	completionTokens := countWords(content)

	logger.Debug("extractive summary built",
		observability.Int("prompt_tokens", promptTokens),
		observability.Int("completion_tokens", completionTokens),
	)

	return &domain.CompletionResponse{
		ID:       fmt.Sprintf("extract-%d", time.Now().UnixNano()),
		Model:    req.Model,
		Provider: p.name,
		Content:  content,
		Usage: domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
			Cost:             0.0,
		},
		FinishTime: time.Now(),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// IsModelSupported checks if the provider supports the given model.
func (p *Provider) IsModelSupported(_ context.Context, model string) bool {
	return p.supportedModels[model]
}

// SupportedModels returns a list of all models this provider supports.
func (p *Provider) SupportedModels(_ context.Context) []string {
	models := make([]string, 0, len(p.supportedModels))
	for model := range p.supportedModels {
		models = append(models, model)
	}
	return models
}

// lastMessageContent returns the content of the final message, which carries
// the text to summarize.
func lastMessageContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// leadingWords keeps the first maxWords words of text.
func leadingWords(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 1
	}

	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	return strings.Join(words[:maxWords], " ") + "..."
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// Package tokenizer provides token counting using tiktoken. The cl100k_base
// encoding matches GPT-4 family models and is a close approximation for other
// modern LLMs, which keeps cost estimates calibrated to the billing unit.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/inklight-ai/condense/internal/domain"
)

const defaultEncoding = "cl100k_base"

// Counter counts tokens with a tiktoken BPE encoding.
type Counter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

// Ensure Counter implements domain.TokenCounter.
var _ domain.TokenCounter = (*Counter)(nil)

// NewCounter creates a counter using the cl100k_base encoding.
func NewCounter() (*Counter, error) {
	encoding, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", defaultEncoding, err)
	}

	return &Counter{
		encoding: encoding,
		mu:       sync.RWMutex{},
	}, nil
}

// NewCounterForModel creates a counter with the encoding registered for the
// given model, falling back to cl100k_base for unknown models.
func NewCounterForModel(model string) (*Counter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return NewCounter()
	}

	return &Counter{
		encoding: encoding,
		mu:       sync.RWMutex{},
	}, nil
}

// CountTokens returns the token count for text. Safe for concurrent use.
func (c *Counter) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.encoding.Encode(text, nil, nil))
}

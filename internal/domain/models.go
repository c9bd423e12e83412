package domain

import "time"

// Document holds raw text extracted from a source. Immutable once extracted.
type Document struct {
	Source      string    `json:"source"`
	Text        string    `json:"text"`
	Pages       int       `json:"pages,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// CostEstimate breaks down the estimated cost of sending text to an LLM.
type CostEstimate struct {
	InputTokens           int     `json:"input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	InputCost             float64 `json:"input_cost"`
	OutputCost            float64 `json:"output_cost"`
	TotalCost             float64 `json:"total_cost"`
}

// OptimizationResult reports the reduced text and the achieved savings.
// Chunks is populated instead of Text when the chunk strategy is used.
type OptimizationResult struct {
	Strategy            string        `json:"strategy"`
	Text                string        `json:"text,omitempty"`
	Chunks              []string      `json:"chunks,omitempty"`
	ChunkCount          int           `json:"chunk_count,omitempty"`
	OriginalTokens      int           `json:"original_tokens"`
	OptimizedTokens     int           `json:"optimized_tokens"`
	TokenReduction      int           `json:"token_reduction"`
	ReductionPercentage float64       `json:"reduction_percentage"`
	OriginalCost        *CostEstimate `json:"original_cost,omitempty"`
	OptimizedCost       *CostEstimate `json:"optimized_cost,omitempty"`
	CostSavings         float64       `json:"cost_savings"`
	UsedModel           bool          `json:"used_model"`
}

// CompletionRequest represents a unified LLM request.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// CompletionResponse represents a unified LLM response.
type CompletionResponse struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Provider   string    `json:"provider"`
	Content    string    `json:"content"`
	Usage      Usage     `json:"usage"`
	FinishTime time.Time `json:"finish_time"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// RelatedPaper is a recommendation for further reading, resolved from the
// paper a user is asking about.
type RelatedPaper struct {
	Title    string   `json:"title"`
	Year     int      `json:"year,omitempty"`
	URL      string   `json:"url,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Venue    string   `json:"venue,omitempty"`
}

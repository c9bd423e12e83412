package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/inklight-ai/condense/internal/config"
	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	optimizer *domain.Optimizer
	extract   *domain.ExtractService
	summaries *domain.SummaryService
	related   domain.RelatedFinder
	defaults  *config.OptimizerConfig
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	optimizer *domain.Optimizer,
	extract *domain.ExtractService,
	summaries *domain.SummaryService,
	related domain.RelatedFinder,
	defaults *config.OptimizerConfig,
) *Handler {
	return &Handler{
		optimizer: optimizer,
		extract:   extract,
		summaries: summaries,
		related:   related,
		defaults:  defaults,
	}
}

// optimizeRequest is the body for /v1/optimize and /v1/summarize. Either Text
// or Source (a PDF URL or file path) must be set.
type optimizeRequest struct {
	Text       string `json:"text,omitempty"`
	Source     string `json:"source,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	MaxTokens  int    `json:"max_tokens,omitempty"`
	BestEffort bool   `json:"best_effort,omitempty"`
}

// optimizeResponse carries the reduced text plus accounting.
type optimizeResponse struct {
	Text             string                     `json:"text,omitempty"`
	Chunks           []string                   `json:"chunks,omitempty"`
	OptimizationInfo *domain.OptimizationResult `json:"optimization_info"`
}

// summarizeResponse carries the final summary plus accounting.
type summarizeResponse struct {
	Summary          string                     `json:"summary"`
	Model            string                     `json:"model"`
	Provider         string                     `json:"provider"`
	Usage            domain.Usage               `json:"usage"`
	OptimizationInfo *domain.OptimizationResult `json:"optimization_info"`
}

// estimateRequest is the body for /v1/estimate.
type estimateRequest struct {
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}

// relatedRequest is the body for /v1/related. Source must be a paper URL
// containing a DOI or arXiv identifier.
type relatedRequest struct {
	Source string `json:"source"`
	Limit  int    `json:"limit,omitempty"`
}

// relatedResponse lists papers recommended for further reading.
type relatedResponse struct {
	Source string                `json:"source"`
	Papers []domain.RelatedPaper `json:"papers"`
	Count  int                   `json:"count"`
}

// HandleOptimize processes optimization requests.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	h.applyDefaults(&req)

	logger := observability.FromContext(ctx)
	logger.Info("optimize request received",
		observability.String("strategy", req.Strategy),
		observability.Int("max_tokens", req.MaxTokens),
		observability.Bool("has_source", req.Source != ""))

	text, err := h.resolveText(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	result, err := h.optimizer.Optimize(ctx, &domain.OptimizeRequest{
		Text:       text,
		Strategy:   req.Strategy,
		MaxTokens:  req.MaxTokens,
		BestEffort: req.BestEffort,
	})
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, toOptimizeResponse(result))
}

// HandleEstimate reports token counts and estimated cost without optimizing.
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	text := req.Text
	if text == "" && req.Source != "" {
		doc, err := h.extract.Extract(ctx, req.Source)
		if err != nil {
			h.writeError(ctx, w, err)
			return
		}
		text = doc.Text
	}

	estimate, err := h.optimizer.EstimateCost(ctx, text)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, estimate)
}

// HandleSummarize optimizes the document and forwards the reduced text to the
// LLM for a final summary.
func (h *Handler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	h.applyDefaults(&req)

	if req.Strategy == string(domain.StrategyChunk) {
		http.Error(w, "chunk strategy is not supported for summarization", http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("summarize request received",
		observability.String("strategy", req.Strategy),
		observability.Int("max_tokens", req.MaxTokens))

	text, err := h.resolveText(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	result, err := h.optimizer.Optimize(ctx, &domain.OptimizeRequest{
		Text:       text,
		Strategy:   req.Strategy,
		MaxTokens:  req.MaxTokens,
		BestEffort: req.BestEffort,
	})
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	response, err := h.summaries.SummarizeDocument(ctx, result.Text, req.MaxTokens)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	logger.Info("summarize succeeded",
		observability.Int("tokens", response.Usage.TotalTokens),
		observability.Float64("cost", response.Usage.Cost))

	info := *result
	info.Text = ""
	info.Chunks = nil

	h.writeJSON(ctx, w, &summarizeResponse{
		Summary:          response.Content,
		Model:            response.Model,
		Provider:         response.Provider,
		Usage:            response.Usage,
		OptimizationInfo: &info,
	})
}

// HandleRelated recommends papers related to the one at the request's source.
func (h *Handler) HandleRelated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req relatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Source == "" {
		http.Error(w, "source is required", http.StatusBadRequest)
		return
	}

	ctx = observability.WithSource(ctx, req.Source)
	logger := observability.FromContext(ctx)
	logger.Info("related papers request received", observability.Int("limit", req.Limit))

	papers, err := h.related.Related(ctx, req.Source, req.Limit)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, &relatedResponse{
		Source: req.Source,
		Papers: papers,
		Count:  len(papers),
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func (h *Handler) applyDefaults(req *optimizeRequest) {
	if req.Strategy == "" {
		req.Strategy = string(domain.StrategyAuto)
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = h.defaults.DefaultMaxTokens
	}
}

// resolveText returns the request's inline text or extracts it from source.
func (h *Handler) resolveText(ctx context.Context, req *optimizeRequest) (string, error) {
	if req.Text != "" {
		return req.Text, nil
	}

	if req.Source == "" {
		return "", fmt.Errorf("%w: either text or source is required", domain.ErrEmptyText)
	}

	doc, err := h.extract.Extract(ctx, req.Source)
	if err != nil {
		return "", err
	}

	return doc.Text, nil
}

func toOptimizeResponse(result *domain.OptimizationResult) *optimizeResponse {
	info := *result
	info.Text = ""
	info.Chunks = nil

	return &optimizeResponse{
		Text:             result.Text,
		Chunks:           result.Chunks,
		OptimizationInfo: &info,
	}
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	logger := observability.FromContext(ctx)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", observability.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx)
	logger.Error("request failed", observability.Error(err))

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidBudget),
		errors.Is(err, domain.ErrUnknownStrategy):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrExtraction),
		errors.Is(err, domain.ErrProvider),
		errors.Is(err, domain.ErrRelated):
		status = http.StatusBadGateway
	}

	http.Error(w, err.Error(), status)
}

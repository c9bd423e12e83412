package extractive_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/provider/extractive"
)

func TestNewProvider(t *testing.T) {
	provider := extractive.NewProvider()

	require.NotNil(t, provider)
	require.Equal(t, "extractive", provider.Name())
}

func TestComplete_Success(t *testing.T) {
	provider := extractive.NewProvider()
	ctx := context.Background()

	req := &domain.CompletionRequest{
		Model: "extract-1",
		Messages: []domain.Message{
			{Role: "user", Content: strings.Repeat("word ", 100)},
		},
		MaxTokens: 20,
	}

	resp, err := provider.Complete(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, "extract-1", resp.Model)
	require.Equal(t, "extractive", resp.Provider)
	// 20 tokens * 0.75 words per token = 15 words plus the ellipsis
	require.Equal(t, 15, len(strings.Fields(resp.Content)))
	require.True(t, strings.HasSuffix(resp.Content, "..."))
	require.Equal(t, 100, resp.Usage.PromptTokens)
	require.Equal(t, 15, resp.Usage.CompletionTokens)
	require.Zero(t, resp.Usage.Cost)
	require.NotEmpty(t, resp.ID)
}

func TestComplete_ShortInputReturnedWhole(t *testing.T) {
	provider := extractive.NewProvider()
	ctx := context.Background()

	req := &domain.CompletionRequest{
		Model: "extract-1",
		Messages: []domain.Message{
			{Role: "user", Content: "just five words in here"},
		},
		MaxTokens: 100,
	}

	resp, err := provider.Complete(ctx, req)

	require.NoError(t, err)
	require.Equal(t, "just five words in here", resp.Content)
}

func TestComplete_UsesLastMessage(t *testing.T) {
	provider := extractive.NewProvider()
	ctx := context.Background()

	req := &domain.CompletionRequest{
		Model: "extract-1",
		Messages: []domain.Message{
			{Role: "system", Content: "you are a summarizer"},
			{Role: "user", Content: "the actual document"},
		},
		MaxTokens: 100,
	}

	resp, err := provider.Complete(ctx, req)

	require.NoError(t, err)
	require.Equal(t, "the actual document", resp.Content)
}

func TestComplete_NilRequest(t *testing.T) {
	provider := extractive.NewProvider()

	resp, err := provider.Complete(context.Background(), nil)

	require.Error(t, err)
	require.Nil(t, resp)
	require.Contains(t, err.Error(), "request cannot be nil")
}

func TestComplete_UnsupportedModel(t *testing.T) {
	provider := extractive.NewProvider()

	req := &domain.CompletionRequest{
		Model: "gpt-4o",
		Messages: []domain.Message{
			{Role: "user", Content: "hello"},
		},
	}

	resp, err := provider.Complete(context.Background(), req)

	require.Error(t, err)
	require.Nil(t, resp)
	require.Contains(t, err.Error(), "not supported")
}

func TestIsModelSupported(t *testing.T) {
	provider := extractive.NewProvider()
	ctx := context.Background()

	require.True(t, provider.IsModelSupported(ctx, "extract-1"))
	require.False(t, provider.IsModelSupported(ctx, "gpt-4o"))
}

func TestSupportedModels(t *testing.T) {
	provider := extractive.NewProvider()

	require.Equal(t, []string{"extract-1"}, provider.SupportedModels(context.Background()))
}

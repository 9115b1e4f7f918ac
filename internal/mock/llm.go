package mock

import (
	"context"

	"github.com/ishaan812/gitscribe/internal/llm"
)

// Compile-time interface verification.
var _ llm.Client = (*LLMClient)(nil)

// LLMClient is a mock implementation of llm.Client.
type LLMClient struct {
	QueryFn func(ctx context.Context, prompt string, maxTokens int) (string, error)
	ChatFn  func(ctx context.Context, messages []llm.Message, maxTokens int) (string, error)
}

func (c *LLMClient) Query(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.QueryFn(ctx, prompt, maxTokens)
}

func (c *LLMClient) Chat(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	return c.ChatFn(ctx, messages, maxTokens)
}

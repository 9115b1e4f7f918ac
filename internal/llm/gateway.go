package llm

import "context"

// Gateway decorates a Client with prompt sanitizing and retries. It is the
// only Client the rest of the program talks to.
type Gateway struct {
	next   Client
	policy RetryPolicy
}

// NewGateway wraps next with the given retry policy.
func NewGateway(next Client, policy RetryPolicy) *Gateway {
	return &Gateway{next: next, policy: policy}
}

func (g *Gateway) Query(ctx context.Context, prompt string, maxTokens int) (string, error) {
	prompt = SanitizePrompt(prompt)
	return Retry(ctx, g.policy, func(ctx context.Context) (string, error) {
		return g.next.Query(ctx, prompt, maxTokens)
	})
}

func (g *Gateway) Chat(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	clean := make([]Message, len(messages))
	for i, m := range messages {
		clean[i] = Message{Role: m.Role, Content: SanitizePrompt(m.Content)}
	}
	return Retry(ctx, g.policy, func(ctx context.Context) (string, error) {
		return g.next.Chat(ctx, clean, maxTokens)
	})
}

package llm

import (
	"context"
	"fmt"

	"github.com/ishaan812/gitscribe/internal/constants"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM operations.
type Client interface {
	// Query sends a one-shot prompt.
	Query(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Chat sends a conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Provider represents an LLM provider type.
type Provider = constants.Provider

const (
	ProviderOllama = constants.ProviderOllama
	ProviderGemini = constants.ProviderGemini
)

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
}

// Option is a functional option for configuring LLM clients.
type Option func(*Config)

// WithModel sets the model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

func defaultConfig(provider Provider) *Config {
	return &Config{
		Provider:    provider,
		Model:       constants.GetDefaultModel(provider),
		BaseURL:     constants.GetDefaultBaseURL(provider),
		Temperature: constants.DefaultTemperature,
	}
}

// options turns the set fields of c into Options. Unset fields keep the
// provider defaults.
func (c Config) options() []Option {
	opts := []Option{WithTemperature(c.Temperature)}
	if c.Model != "" {
		opts = append(opts, WithModel(c.Model))
	}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	if c.APIKey != "" {
		opts = append(opts, WithAPIKey(c.APIKey))
	}
	return opts
}

// NewOllamaClientWithOptions creates an Ollama client with options.
func NewOllamaClientWithOptions(opts ...Option) *OllamaClient {
	cfg := defaultConfig(ProviderOllama)
	for _, opt := range opts {
		opt(cfg)
	}
	return NewOllamaClient(cfg.BaseURL, cfg.Model, cfg.Temperature)
}

// NewGeminiClientWithOptions creates a Gemini client with options. An API
// key is required.
func NewGeminiClientWithOptions(opts ...Option) (*GeminiClient, error) {
	cfg := defaultConfig(ProviderGemini)
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	return NewGeminiClient(cfg.APIKey, cfg.Model, cfg.Temperature), nil
}

// NewClient creates an LLM client from config.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClientWithOptions(cfg.options()...), nil
	case ProviderGemini:
		c, err := NewGeminiClientWithOptions(cfg.options()...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

type streamHandlerKey struct{}

// WithStreamHandler returns a context that makes clients report every
// streamed fragment to fn as it arrives.
func WithStreamHandler(ctx context.Context, fn func(fragment string)) context.Context {
	return context.WithValue(ctx, streamHandlerKey{}, fn)
}

func streamHandler(ctx context.Context) func(string) {
	fn, _ := ctx.Value(streamHandlerKey{}).(func(string))
	if fn == nil {
		return func(string) {}
	}
	return fn
}

// StatusError is returned when the model endpoint answers with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned status %d: %s", e.Code, e.Body)
}

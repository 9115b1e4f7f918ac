package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var _ Client = (*GeminiClient)(nil)

// ── Gemini LLM Client ──────────────────────────────────────────────────────

// GeminiClient implements the Client interface using Google's official Gemini Go SDK.
type GeminiClient struct {
	client      *genai.Client
	apiKey      string
	model       string
	temperature float64
}

func NewGeminiClient(apiKey, model string, temperature float64) *GeminiClient {
	// The SDK client is created lazily on first use
	return &GeminiClient{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
	}
}

// ensureClient initializes the SDK client if not already initialized
func (c *GeminiClient) ensureClient(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	return nil
}

func (c *GeminiClient) Query(ctx context.Context, prompt string, maxTokens int) (string, error) {
	messages := []Message{
		{Role: RoleUser, Content: prompt},
	}
	return c.Chat(ctx, messages, maxTokens)
}

// Chat streams a generation. Gemini fragments are deltas, so they are
// concatenated.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	contents, systemInstruction := toGeminiContents(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("no user/assistant messages provided")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if strings.Contains(c.model, "pro") {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingLevel: "HIGH",
		}
	}
	if systemInstruction != nil {
		config.SystemInstruction = systemInstruction
	}

	onFragment := streamHandler(ctx)
	var out strings.Builder
	for result, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, config) {
		if err != nil {
			return "", fmt.Errorf("Gemini API error: %w", err)
		}
		text := result.Text()
		if text == "" {
			continue
		}
		out.WriteString(text)
		onFragment(text)
	}

	return strings.TrimSpace(out.String()), nil
}

func toGeminiContents(messages []Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemInstruction *genai.Content

	for _, m := range messages {
		role := m.Role
		switch role {
		case RoleSystem:
			// Gemini uses systemInstruction for system prompts
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{
					genai.NewPartFromText(m.Content),
				},
			}
			continue
		case RoleAssistant:
			role = "model"
		case RoleUser:
		default:
			role = RoleUser
		}

		contents = append(contents, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				genai.NewPartFromText(m.Content),
			},
		})
	}
	return contents, systemInstruction
}

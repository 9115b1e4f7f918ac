package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	_ Client = (*OllamaClient)(nil)
	_ Client = (*Gateway)(nil)
)

// OllamaClient talks to a local Ollama server over its streaming JSON-lines API.
type OllamaClient struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func NewOllamaClient(baseURL, model string, temperature float64) *OllamaClient {
	return &OllamaClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		client:      &http.Client{},
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateRequest struct {
	Model       string        `json:"model"`
	Prompt      string        `json:"prompt"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Options     ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type ollamaChatRequest struct {
	Model       string          `json:"model"`
	Messages    []ollamaMessage `json:"messages"`
	Stream      bool            `json:"stream"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Options     ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// Query streams /api/generate and concatenates every fragment's response text.
func (c *OllamaClient) Query(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Stream:      true,
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
		Options:     ollamaOptions{Temperature: c.temperature, NumPredict: maxTokens},
	}

	onFragment := streamHandler(ctx)
	var out strings.Builder
	var streamErr error
	err := c.stream(ctx, "/api/generate", reqBody, func(line []byte) {
		var frag ollamaGenerateResponse
		if err := json.Unmarshal(line, &frag); err != nil {
			return
		}
		if frag.Error != "" {
			streamErr = fmt.Errorf("ollama error: %s", frag.Error)
			return
		}
		if frag.Response != "" {
			out.WriteString(frag.Response)
			onFragment(frag.Response)
		}
	})
	if err != nil {
		return "", err
	}
	if streamErr != nil {
		return "", streamErr
	}

	return strings.TrimSpace(out.String()), nil
}

// Chat streams /api/chat. Each non-final fragment replaces the accumulated
// content; a final fragment's content is used only when nothing came before it.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	ollamaMessages := make([]ollamaMessage, len(messages))
	for i, m := range messages {
		ollamaMessages[i] = ollamaMessage(m)
	}

	reqBody := ollamaChatRequest{
		Model:       c.model,
		Messages:    ollamaMessages,
		Stream:      true,
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
		Options:     ollamaOptions{Temperature: c.temperature, NumPredict: maxTokens},
	}

	onFragment := streamHandler(ctx)
	var latest string
	var streamErr error
	err := c.stream(ctx, "/api/chat", reqBody, func(line []byte) {
		var frag ollamaChatResponse
		if err := json.Unmarshal(line, &frag); err != nil {
			return
		}
		if frag.Error != "" {
			streamErr = fmt.Errorf("ollama error: %s", frag.Error)
			return
		}
		content := frag.Message.Content
		if content == "" {
			return
		}
		onFragment(content)
		if !frag.Done || latest == "" {
			latest = content
		}
	})
	if err != nil {
		return "", err
	}
	if streamErr != nil {
		return "", streamErr
	}

	return strings.TrimSpace(latest), nil
}

func (c *OllamaClient) stream(ctx context.Context, path string, body any, onLine func([]byte)) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if err := readLines(resp.Body, onLine); err != nil {
		return fmt.Errorf("failed to read response stream: %w", err)
	}
	return nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of the models installed on the server.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

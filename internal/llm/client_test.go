package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_OllamaDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Temperature: 0.2})
	require.NoError(t, err)
	oc, ok := c.(*OllamaClient)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", oc.baseURL)
	assert.Equal(t, "llama3.1", oc.model)
	assert.Equal(t, 0.2, oc.temperature)
}

func TestNewClient_OllamaOverrides(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Provider: ProviderOllama, Model: "qwen2.5-coder", BaseURL: "http://gpu:11434/", Temperature: 0.7})
	require.NoError(t, err)
	oc := c.(*OllamaClient)
	assert.Equal(t, "http://gpu:11434", oc.baseURL)
	assert.Equal(t, "qwen2.5-coder", oc.model)
	assert.Equal(t, 0.7, oc.temperature)
}

func TestNewClient_Gemini(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Provider: ProviderGemini})
	assert.ErrorContains(t, err, "API key")

	c, err := NewClient(Config{Provider: ProviderGemini, APIKey: "key", Temperature: 0.2})
	require.NoError(t, err)
	gc := c.(*GeminiClient)
	assert.Equal(t, "key", gc.apiKey)
	assert.Equal(t, "gemini-2.5-flash", gc.model)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Provider: "mystery"})
	assert.Error(t, err)
}

func TestNewOllamaClientWithOptions(t *testing.T) {
	t.Parallel()

	c := NewOllamaClientWithOptions(WithBaseURL("http://box:1"), WithModel("mistral"), WithTemperature(0))
	assert.Equal(t, "http://box:1", c.baseURL)
	assert.Equal(t, "mistral", c.model)
	assert.Equal(t, 0.0, c.temperature)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ishaan812/gitscribe/internal/constants"
	"github.com/ishaan812/gitscribe/internal/llm"
)

type Config struct {
	Provider string `json:"provider"`

	// Ollama config
	OllamaBaseURL string `json:"ollama_base_url,omitempty"`
	OllamaModel   string `json:"ollama_model,omitempty"`

	// Gemini config
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`

	// Output
	Language  string `json:"language"`
	Streaming bool   `json:"streaming"`

	// Generation
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	RetryAttempts     int     `json:"retry_attempts"`
	RetryDelaySeconds int     `json:"retry_delay_seconds"`
	Workers           int     `json:"workers"`
	CacheSize         int     `json:"cache_size"`
}

var configPath string

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		configPath = ".gitscribe/config.json"
		return
	}
	configPath = filepath.Join(homeDir, ".gitscribe", "config.json")
}

func GetConfigPath() string {
	return configPath
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:          string(constants.ProviderOllama),
		OllamaBaseURL:     constants.GetDefaultBaseURL(constants.ProviderOllama),
		OllamaModel:       constants.GetDefaultModel(constants.ProviderOllama),
		GeminiModel:       constants.GetDefaultModel(constants.ProviderGemini),
		Language:          constants.DefaultLanguage,
		Temperature:       constants.DefaultTemperature,
		MaxTokens:         constants.DefaultMaxTokens,
		RetryAttempts:     constants.DefaultRetries,
		RetryDelaySeconds: constants.DefaultRetryDelay,
		Workers:           1,
		CacheSize:         constants.DefaultCacheSize,
	}
}

// Load reads the config file, then .env in the working directory, then the
// environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the saved config without environment overrides, so that
// saving it back does not persist values that came from the environment.
func LoadFile() (*Config, error) {
	cfg, err := readFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); v != "" {
		if !strings.Contains(v, "://") {
			v = "http://" + v
		}
		c.OllamaBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GITSCRIBE_PROVIDER")); v != "" {
		c.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("GITSCRIBE_MODEL")); v != "" {
		c.SetModel(v)
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.GeminiAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GITSCRIBE_LANGUAGE")); v != "" {
		c.Language = v
	}
}

// Validate normalizes the provider name and rejects unusable values.
func (c *Config) Validate() error {
	p, ok := constants.ParseProvider(c.Provider)
	if !ok {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	c.Provider = string(p)

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry_attempts must be positive, got %d", c.RetryAttempts)
	}
	if c.RetryDelaySeconds < 0 {
		return fmt.Errorf("retry_delay_seconds must not be negative, got %d", c.RetryDelaySeconds)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = constants.DefaultLanguage
	}
	return nil
}

func (c *Config) Save() error {
	return c.SaveTo(configPath)
}

func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) provider() constants.Provider {
	p, _ := constants.ParseProvider(c.Provider)
	return p
}

// Model returns the model of the active provider.
func (c *Config) Model() string {
	if c.provider() == constants.ProviderGemini {
		return c.GeminiModel
	}
	return c.OllamaModel
}

// SetModel sets the model of the active provider.
func (c *Config) SetModel(model string) {
	if c.provider() == constants.ProviderGemini {
		c.GeminiModel = model
		return
	}
	c.OllamaModel = model
}

func (c *Config) HasProvider(provider string) bool {
	p, ok := constants.ParseProvider(provider)
	if !ok {
		return false
	}
	switch p {
	case constants.ProviderGemini:
		return c.GeminiAPIKey != ""
	default:
		return true
	}
}

// LLMConfig describes the client for the active provider.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    c.provider(),
		Model:       c.Model(),
		Temperature: c.Temperature,
	}
	switch cfg.Provider {
	case constants.ProviderGemini:
		cfg.APIKey = c.GeminiAPIKey
	default:
		cfg.BaseURL = c.OllamaBaseURL
	}
	return cfg
}

// RetryPolicy returns the linear backoff policy for model calls.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	return llm.RetryPolicy{
		Attempts: c.RetryAttempts,
		Delay:    llm.LinearBackoff(time.Duration(c.RetryDelaySeconds) * time.Second),
	}
}

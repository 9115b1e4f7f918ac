package constants

// ModelConfig holds model configuration for a provider
type ModelConfig struct {
	LLMModel string
	BaseURL  string
}

// DefaultModels contains default model configurations for each provider
var DefaultModels = map[Provider]ModelConfig{
	ProviderOllama: {
		LLMModel: "llama3.1",
		BaseURL:  "http://localhost:11434",
	},
	ProviderGemini: {
		LLMModel: "gemini-2.5-flash",
	},
}

// Generation defaults shared by every provider.
const (
	DefaultLanguage    = "English"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 2048
	DefaultRetries     = 3
	DefaultRetryDelay  = 2 // seconds
	DefaultCacheSize   = 128
)

// GetDefaultModel returns the default LLM model for a provider
func GetDefaultModel(provider Provider) string {
	if config, ok := DefaultModels[provider]; ok {
		return config.LLMModel
	}
	return ""
}

// GetDefaultBaseURL returns the default base URL for a provider
func GetDefaultBaseURL(provider Provider) string {
	if config, ok := DefaultModels[provider]; ok {
		return config.BaseURL
	}
	return ""
}

package constants

import "strings"

// Provider represents an LLM provider type
type Provider string

// LLM Providers
const (
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// ProviderInfo contains display information about a provider
type ProviderInfo struct {
	Name        string
	Description string
	NeedsAPIKey bool
}

// AllProviders returns all available LLM providers in order
var AllProviders = []ProviderInfo{
	{
		Name:        "Ollama",
		Description: "Free, local, private (default)",
		NeedsAPIKey: false,
	},
	{
		Name:        "Gemini",
		Description: "Google Gemini via the genai SDK",
		NeedsAPIKey: true,
	},
}

// ParseProvider normalizes a provider name. The second return is false for
// names that are not supported.
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderOllama, ProviderGemini:
		return p, true
	case "":
		return ProviderOllama, true
	}
	return p, false
}

// GetProviderInfo returns display information for a provider, or nil.
func GetProviderInfo(provider Provider) *ProviderInfo {
	for i := range AllProviders {
		if strings.EqualFold(AllProviders[i].Name, string(provider)) {
			return &AllProviders[i]
		}
	}
	return nil
}

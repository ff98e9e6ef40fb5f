package providers

import (
	"fmt"
	"strings"

	"github.com/AzielCF/az-planner/planengine/domain"
)

// New returns the provider adapter for the configured vendor name.
func New(provider, apiKey string) (domain.AIProvider, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		return NewGeminiProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", provider)
	}
}

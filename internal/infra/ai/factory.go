package ai

import (
	"log"
	"time"

	"github.com/followwise/followwise-api/internal/infra/integration/nvidia"
	"github.com/followwise/followwise-api/internal/usecase"
)

type ProviderType string

const (
	ProviderTemplate ProviderType = "template"
	ProviderNvidia   ProviderType = "nvidia"
)

type Config struct {
	Provider ProviderType
	Timeout  time.Duration

	NvidiaAPIKey  string
	NvidiaBaseURL string
	NvidiaModel   string
}

// NewSuggestionProvider picks the provider implementation from config.
// Remote providers are always wrapped with the template fallback.
func NewSuggestionProvider(cfg Config) usecase.SuggestionProvider {
	templates := NewTemplateProvider()

	switch cfg.Provider {
	case ProviderNvidia:
		if cfg.NvidiaAPIKey == "" {
			log.Println("[AI] NVIDIA_API_KEY not set, using template provider")
			return templates
		}
		client := nvidia.NewClient(cfg.NvidiaAPIKey, cfg.NvidiaBaseURL, cfg.NvidiaModel, cfg.Timeout)
		return NewFallbackProvider(string(ProviderNvidia), client, templates, cfg.Timeout)
	default:
		return templates
	}
}

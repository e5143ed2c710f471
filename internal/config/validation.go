package config

import (
	"fmt"
	"os"
)

// Validate checks the configuration for invalid values.
// Called from Load so an invalid configuration fails fast at startup.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini provider", ErrMissingAPIKey)
		}
	case ProviderOllama:
		// Ollama needs no API key; host default applies
	default:
		return fmt.Errorf("%w: %q (supported: gemini, ollama)", ErrInvalidProvider, c.Provider)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}

	if c.PersistDir == "" {
		return fmt.Errorf("%w: persist directory must not be empty", ErrInvalidPersistDir)
	}

	switch c.ReindexPolicy {
	case ReindexSkip, ReindexRebuild:
	default:
		return fmt.Errorf("%w: %q (supported: skip, rebuild)", ErrInvalidReindexPolicy, c.ReindexPolicy)
	}

	switch c.CatalogSource {
	case CatalogStatic:
	case CatalogRemote:
		if c.CampaignsURL == "" {
			return fmt.Errorf("%w: campaigns_url is required for the remote catalog source", ErrMissingCampaignsURL)
		}
	default:
		return fmt.Errorf("%w: %q (supported: static, remote)", ErrInvalidCatalogSource, c.CatalogSource)
	}

	if c.TopN < 1 || c.TopN > MaxTopN {
		return fmt.Errorf("%w: top_n must be between 1 and %d, got %d", ErrInvalidTopN, MaxTopN, c.TopN)
	}

	return nil
}

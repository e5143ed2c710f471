// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.causabot/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider, chat model, embedder model
//   - Index: persist directory for the embedded vector index, reindex policy
//   - Catalog: static dataset or remote campaign API
//   - Serve: HTTP address, CORS origins, rate limiting
//
// Error Handling: sentinel errors for Go-idiomatic checking with errors.Is;
// wrapped with context via fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidCatalogSource indicates the catalog source is not supported.
	ErrInvalidCatalogSource = errors.New("invalid catalog source")

	// ErrMissingCampaignsURL indicates the remote catalog URL is not set.
	ErrMissingCampaignsURL = errors.New("missing campaigns URL")

	// ErrInvalidReindexPolicy indicates the reindex policy is not supported.
	ErrInvalidReindexPolicy = errors.New("invalid reindex policy")

	// ErrInvalidTopN indicates the retrieval result count is out of range.
	ErrInvalidTopN = errors.New("invalid top N")

	// ErrInvalidPersistDir indicates the index persist directory is empty.
	ErrInvalidPersistDir = errors.New("invalid persist directory")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderGoogleAI = "googleai"
)

// Catalog source identifiers used in Config.CatalogSource.
const (
	CatalogStatic = "static"
	CatalogRemote = "remote"
)

// Reindex policy identifiers used in Config.ReindexPolicy.
const (
	ReindexSkip    = "skip"
	ReindexRebuild = "rebuild"
)

const (
	// DefaultEmbedderModel is the default Gemini embedding model.
	// Its vector space is cosine-compatible with the index's metric.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultChatModel is the default generation model.
	DefaultChatModel = "gemini-2.5-flash"

	// MaxTopN bounds how many causes are handed to the model as context.
	MaxTopN = 10
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string `mapstructure:"provider"`       // "gemini" (default) or "ollama"
	ModelName     string `mapstructure:"model_name"`     // generation model (e.g. "gemini-2.5-flash")
	EmbedderModel string `mapstructure:"embedder_model"` // embedding model (e.g. "text-embedding-004")
	OllamaHost    string `mapstructure:"ollama_host"`    // only used when provider is "ollama"

	// Vector index configuration
	PersistDir    string `mapstructure:"persist_dir"`    // on-disk location of the embedded index
	ReindexPolicy string `mapstructure:"reindex_policy"` // "skip" or "rebuild"

	// Catalog configuration
	CatalogSource string `mapstructure:"catalog_source"` // "static" or "remote"
	CampaignsURL  string `mapstructure:"campaigns_url"`  // base URL of the campaign API (remote source)

	// Retrieval configuration
	TopN int `mapstructure:"top_n"` // causes retrieved per query

	// Serve configuration
	HTTPAddr    string   `mapstructure:"http_addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	RateBurst   int      `mapstructure:"rate_burst"` // per-IP rate limiter burst (0 = default)
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".causabot")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", DefaultChatModel)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("persist_dir", "chroma_db_data")
	viper.SetDefault("reindex_policy", ReindexSkip)

	viper.SetDefault("catalog_source", CatalogStatic)
	viper.SetDefault("campaigns_url", "http://localhost:8080")

	viper.SetDefault("top_n", 2)

	viper.SetDefault("http_addr", ":5218")
	viper.SetDefault("cors_origins", []string{"http://localhost:5173"})
	viper.SetDefault("rate_burst", 0)
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY is read directly by Genkit, not via Viper; its presence is
// checked in Validate for the gemini provider.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "CAUSABOT_PROVIDER")
	mustBind("model_name", "CAUSABOT_MODEL_NAME")
	mustBind("embedder_model", "CAUSABOT_EMBEDDER_MODEL")
	mustBind("ollama_host", "CAUSABOT_OLLAMA_HOST")
	mustBind("persist_dir", "CAUSABOT_PERSIST_DIR")
	mustBind("reindex_policy", "CAUSABOT_REINDEX_POLICY")
	mustBind("catalog_source", "CAUSABOT_CATALOG_SOURCE")
	mustBind("campaigns_url", "CAUSABOT_CAMPAIGNS_URL")
	mustBind("http_addr", "CAUSABOT_HTTP_ADDR")
	mustBind("cors_origins", "CAUSABOT_CORS_ORIGINS")
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	if c.Provider == ProviderOllama {
		return ProviderOllama + "/" + c.ModelName
	}
	return ProviderGoogleAI + "/" + c.ModelName
}

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/midonacion/causabot/internal/catalog"
	"github.com/midonacion/causabot/internal/config"
	"github.com/midonacion/causabot/internal/knowledge"
	"github.com/midonacion/causabot/internal/log"
	"github.com/midonacion/causabot/internal/rag"
)

// reindexLockFile serializes reindex runs across processes sharing one
// persistence directory.
const reindexLockFile = ".reindex.lock"

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	store, err := knowledge.Open(cfg.PersistDir, knowledge.NewEmbeddingFunc(embedder), logger)
	if err != nil {
		return nil, err
	}
	a.Store = store

	source, err := provideSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cfg.PersistDir, reindexLockFile)
	a.Indexer = rag.NewIndexer(store, source, rag.Policy(cfg.ReindexPolicy), lockPath, logger)
	a.Retriever = rag.NewRetriever(store, logger)

	generator := rag.NewGenkitGenerator(g, cfg.FullModelName())
	a.Pipeline = rag.NewPipeline(a.Retriever, generator, cfg.TopN, logger)

	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports gemini (default) and ollama providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		// Register embedder for retrieval
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	default: // gemini / googleai
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the AI provider plugin.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		// Ollama embedder is keyed by server address (registered in provideGenkit)
		return ollama.Embedder(g, cfg.OllamaHost)
	default:
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}

// provideSource picks the catalog source for the configured mode.
func provideSource(cfg *config.Config, logger log.Logger) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case config.CatalogRemote:
		return catalog.NewRemote(cfg.CampaignsURL, logger)
	case config.CatalogStatic, "":
		return catalog.NewStatic(), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidCatalogSource, cfg.CatalogSource)
	}
}

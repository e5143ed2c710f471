// Package app provides application initialization and dependency injection.
//
// App is the container that wires configuration, Genkit, the vector store,
// the indexer and the answer pipeline together. Commands consume the
// container instead of constructing components themselves.
package app

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/midonacion/causabot/internal/config"
	"github.com/midonacion/causabot/internal/knowledge"
	"github.com/midonacion/causabot/internal/log"
	"github.com/midonacion/causabot/internal/rag"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	// Core services
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	Store    *knowledge.Store

	// Pipeline components
	Indexer   *rag.Indexer
	Retriever *rag.Retriever
	Pipeline  *rag.Pipeline

	cancel context.CancelFunc
}

// Close releases application resources.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Logger != nil {
		a.Logger.Info("application shut down")
	}
	return nil
}

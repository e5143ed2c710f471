package rag

import (
	"context"
	"log/slog"

	"github.com/midonacion/causabot/internal/knowledge"
)

// DefaultTopN is how many causes a query retrieves unless configured.
const DefaultTopN = 2

// Retriever answers similarity queries against the knowledge store.
type Retriever struct {
	store  *knowledge.Store
	logger *slog.Logger
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store *knowledge.Store, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: store, logger: logger}
}

// Search returns up to topN hits in descending similarity order. A topN
// below 1 falls back to DefaultTopN. An empty index returns no hits and no
// error; callers decide how to degrade.
func (r *Retriever) Search(ctx context.Context, query string, topN int) ([]knowledge.Result, error) {
	if topN < 1 {
		topN = DefaultTopN
	}

	results, err := r.store.Search(ctx, query, topN)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("retrieval complete", "hits", len(results), "top_n", topN)

	return results, nil
}

// Count reports how many documents are indexed.
func (r *Retriever) Count() int {
	return r.store.Count()
}

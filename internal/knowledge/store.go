package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// collectionName is the single chromem-go collection holding cause documents.
const collectionName = "causas_conocimiento"

// Store is a vector index over cause documents, backed by chromem-go.
// All writes embed every document before touching the collection, so a
// failing embedding call never leaves the index partially updated.
type Store struct {
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
	logger  *slog.Logger

	mu         sync.RWMutex
	collection *chromem.Collection
}

// Open opens (or creates) a persistent store under persistDir.
// Documents written through the store survive process restarts.
func Open(persistDir string, embedFn chromem.EmbeddingFunc, logger *slog.Logger) (*Store, error) {
	if persistDir == "" {
		return nil, fmt.Errorf("persist directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := chromem.NewPersistentDB(persistDir, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database at %s: %w", persistDir, err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collectionName, err)
	}

	logger.Debug("vector store opened", "dir", persistDir, "documents", collection.Count())

	return &Store{
		db:         db,
		embedFn:    embedFn,
		logger:     logger,
		collection: collection,
	}, nil
}

// NewMemory creates an ephemeral in-memory store. Used by tests and
// throwaway environments; nothing is written to disk.
func NewMemory(embedFn chromem.EmbeddingFunc, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collectionName, err)
	}

	return &Store{
		db:         db,
		embedFn:    embedFn,
		logger:     logger,
		collection: collection,
	}, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Count()
}

// AddBatch indexes the given documents. Every document is embedded before
// any of them is inserted; if an embedding fails the index is unchanged.
func (s *Store) AddBatch(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	embedded, err := s.embedAll(ctx, docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.collection.AddDocuments(ctx, embedded, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("documents indexed", "count", len(docs), "total", s.collection.Count())

	return nil
}

// ReplaceAll atomically replaces the entire index with the given documents.
// All embeddings are computed first; only when every document has a vector
// is the previous collection dropped and the new content inserted. An empty
// slice clears the index.
func (s *Store) ReplaceAll(ctx context.Context, docs []Document) error {
	embedded, err := s.embedAll(ctx, docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resetLocked(); err != nil {
		return err
	}

	if len(embedded) > 0 {
		if err := s.collection.AddDocuments(ctx, embedded, 1); err != nil {
			return fmt.Errorf("adding documents: %w", err)
		}
	}

	s.logger.Debug("index rebuilt", "count", len(docs))

	return nil
}

// Reset drops all indexed documents.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

// resetLocked recreates an empty collection. Callers must hold s.mu.
func (s *Store) resetLocked() error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("deleting collection %s: %w", collectionName, err)
	}

	collection, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedFn)
	if err != nil {
		return fmt.Errorf("recreating collection %s: %w", collectionName, err)
	}

	s.collection = collection

	return nil
}

// Search returns up to topN documents most similar to the query, ordered by
// descending cosine similarity. An empty index yields no results and no
// error. topN is clamped to the index size.
func (s *Store) Search(ctx context.Context, query string, topN int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topN < 1 {
		topN = 1
	}
	if topN > count {
		topN = count
	}

	hits, err := s.collection.Query(ctx, query, topN, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Document: Document{
				ID:       h.ID,
				Content:  h.Content,
				Metadata: h.Metadata,
			},
			Similarity: h.Similarity,
		})
	}

	return results, nil
}

// embedAll computes embeddings for every document up front. Returning an
// error here keeps the collection untouched.
func (s *Store) embedAll(ctx context.Context, docs []Document) ([]chromem.Document, error) {
	embedded := make([]chromem.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document with empty ID")
		}

		vec, err := s.embedFn(ctx, d.Content)
		if err != nil {
			return nil, fmt.Errorf("embedding document %s: %w", d.ID, err)
		}

		embedded = append(embedded, chromem.Document{
			ID:        d.ID,
			Content:   d.Content,
			Metadata:  d.Metadata,
			Embedding: vec,
		})
	}

	return embedded, nil
}

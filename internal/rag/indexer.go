package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/midonacion/causabot/internal/catalog"
	"github.com/midonacion/causabot/internal/knowledge"
)

// Policy controls what a reindex does when the index already holds documents.
type Policy string

const (
	// PolicySkip leaves an already-populated index untouched.
	PolicySkip Policy = "skip"
	// PolicyRebuild replaces the index with a fresh catalog snapshot.
	PolicyRebuild Policy = "rebuild"
)

// Indexer turns the cause catalog into indexed documents.
//
// Reindex runs are serialized: an in-process mutex covers concurrent calls
// within one process, and an optional file lock covers concurrent processes
// sharing the same persistence directory.
type Indexer struct {
	store  *knowledge.Store
	source catalog.Source
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	fileLock *flock.Flock
}

// NewIndexer creates an indexer. lockPath may be empty for ephemeral stores
// that no other process shares.
func NewIndexer(store *knowledge.Store, source catalog.Source, policy Policy, lockPath string, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}

	var fileLock *flock.Flock
	if lockPath != "" {
		fileLock = flock.New(lockPath)
	}

	return &Indexer{
		store:    store,
		source:   source,
		policy:   policy,
		logger:   logger,
		fileLock: fileLock,
	}
}

// Reindex synchronizes the index with the catalog according to the policy
// and returns the number of indexed documents. Fetch or embedding failures
// abort before the existing index is modified, so a reindex can fail
// without losing prior content.
func (ix *Indexer) Reindex(ctx context.Context) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.fileLock != nil {
		if err := ix.fileLock.Lock(); err != nil {
			return 0, fmt.Errorf("acquiring reindex lock: %w", err)
		}
		defer func() {
			if err := ix.fileLock.Unlock(); err != nil {
				ix.logger.Warn("releasing reindex lock failed", "error", err)
			}
		}()
	}

	if ix.policy == PolicySkip {
		if count := ix.store.Count(); count > 0 {
			ix.logger.Info("index already populated, skipping reindex", "documents", count)
			return count, nil
		}
	}

	causes, err := ix.source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching catalog: %w", err)
	}

	docs := BuildDocuments(causes)

	switch ix.policy {
	case PolicyRebuild:
		if err := ix.store.ReplaceAll(ctx, docs); err != nil {
			return 0, fmt.Errorf("rebuilding index: %w", err)
		}
	default:
		if err := ix.store.AddBatch(ctx, docs); err != nil {
			return 0, fmt.Errorf("indexing catalog: %w", err)
		}
	}

	ix.logger.Info("reindex complete", "documents", len(docs), "policy", string(ix.policy))

	return len(docs), nil
}

// BuildDocuments renders each cause into the document text and metadata the
// index stores. The cause ID is embedded in the text so the model can cite
// it when building detail URLs.
func BuildDocuments(causes []catalog.Cause) []knowledge.Document {
	docs := make([]knowledge.Document, 0, len(causes))
	for _, c := range causes {
		docs = append(docs, knowledge.Document{
			ID:       c.ID,
			Content:  documentText(c),
			Metadata: documentMetadata(c),
		})
	}
	return docs
}

func documentText(c catalog.Cause) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ID de la Causa: %s. ", c.ID)
	fmt.Fprintf(&b, "Título: %s. ", c.Title)
	fmt.Fprintf(&b, "Descripción: %s.", c.Description)

	if c.Tags != "" {
		fmt.Fprintf(&b, " Preferencias/Etiquetas clave: %s", c.Tags)
	}
	if c.Goal > 0 {
		fmt.Fprintf(&b, " Meta de recaudación: %s %s.", strconv.FormatFloat(c.Goal, 'f', -1, 64), c.Currency)
	}
	if c.Creator != "" {
		fmt.Fprintf(&b, " Creador: %s.", c.Creator)
	}

	return b.String()
}

func documentMetadata(c catalog.Cause) map[string]string {
	md := map[string]string{"titulo": c.Title}
	if c.Tags != "" {
		md["preferencias"] = c.Tags
	}
	return md
}

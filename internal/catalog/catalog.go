// Package catalog supplies the set of charitable causes to index.
//
// Two sources exist: a compiled-in dataset (Static) and the campaign API of
// the donation backend (Remote). Both satisfy Source so the indexer does not
// care where causes come from.
package catalog

import "context"

// Cause is a charitable initiative that can be recommended to a user.
// Causes are immutable once indexed; a reindex recreates them wholesale.
type Cause struct {
	ID          string  // stable unique key, quoted back by the model
	Title       string
	Description string
	Tags        string // free-text keywords ("preferencias" in the dataset)

	// Only populated by the remote source.
	Goal     float64
	Currency string
	Creator  string
}

// Source supplies the current catalog snapshot.
//
// Fetch returns the full set of causes. A connection failure is an error and
// must be distinguishable from an empty catalog, which is (nil, nil) or an
// empty slice — the indexer treats the two very differently (see fail-closed
// reindexing in the rag package).
type Source interface {
	Fetch(ctx context.Context) ([]Cause, error)
}

// Package store implements the embedding index: a durable mapping from help
// document identifier to embedding vector, indexed text and metadata, with
// cosine nearest-neighbor search.
package store

import (
	"context"
	"errors"

	"github.com/NikshepShetty/vaa-genai-technical-test/content"
)

// ErrUnavailable marks failures to reach or query the backing store.
var ErrUnavailable = errors.New("index unavailable")

const (
	minSearchLimit = 1
	maxSearchLimit = 50
)

// Hit is a single nearest-neighbor match. Similarity is cosine similarity,
// so values near 1 mean near-identical meaning; it can be slightly negative
// for unrelated text.
type Hit struct {
	ID         string
	Title      string
	Category   string
	Text       string
	Similarity float64
}

// Index is the retrieval contract over the embedding store. Implementations
// must be safe for concurrent callers.
type Index interface {
	// Upsert inserts chunks by identifier, replacing text, metadata and
	// vector for identifiers that already exist. Empty input is a no-op.
	Upsert(ctx context.Context, chunks []content.Chunk) error

	// Search embeds text and returns up to limit nearest neighbors,
	// best-first. A non-empty category restricts matches to chunks whose
	// category equals it exactly. No matches is an empty slice, not an
	// error.
	Search(ctx context.Context, text string, limit int, category string) ([]Hit, error)

	// Categories returns the distinct categories currently indexed, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int64, error)
}

// ClampLimit bounds a caller-supplied result count to [1, 50] so a
// pathological request can never turn into an unbounded or invalid scan.
func ClampLimit(limit int) int {
	if limit < minSearchLimit {
		return minSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

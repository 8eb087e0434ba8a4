// Package retrieval runs similarity queries against the embedding index and
// normalizes their scores for display.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/NikshepShetty/vaa-genai-technical-test/store"
)

const defaultTopK = 3

// Result is one retrieved passage, best-first. Score is cosine similarity
// floored at 0 so the surfaced figure is never negative.
type Result struct {
	Text     string
	SourceID string
	Score    float64
}

// InvalidCategoryError reports a category filter outside the set of
// categories currently indexed. It is a request-validation failure raised
// before any embedding or index call.
type InvalidCategoryError struct {
	Category string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

type Retriever struct {
	index store.Index
}

func NewRetriever(index store.Index) *Retriever {
	return &Retriever{index: index}
}

// Retrieve embeds query and returns up to k nearest passages, optionally
// restricted to category. Category matching is case-insensitive and ignores
// surrounding whitespace. A k of 0 selects the default of 3; any other value
// is clamped to [1, 50]. An empty result is a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query, category string, k int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if r.index == nil {
		return nil, fmt.Errorf("index is not configured")
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" {
		known, err := r.index.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		if !contains(known, category) {
			return nil, &InvalidCategoryError{Category: category}
		}
	}

	if k == 0 {
		k = defaultTopK
	}
	k = store.ClampLimit(k)

	hits, err := r.index.Search(ctx, query, k, category)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		score := hit.Similarity
		if score < 0 {
			score = 0
		}
		results = append(results, Result{
			Text:     hit.Text,
			SourceID: hit.ID,
			Score:    score,
		})
	}

	return results, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

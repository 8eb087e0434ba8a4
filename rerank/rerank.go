// Package rerank re-scores retrieved candidates with a pairwise relevance
// model. Scoring each (query, passage) pair jointly is slower than the
// vector search but noticeably more precise when the top matches have
// similar similarity scores, so the stage is optional and off by default.
package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/NikshepShetty/vaa-genai-technical-test/retrieval"
)

// Reranker reorders candidates by pairwise relevance to the query. The
// returned results carry their original fields untouched; the rerank score
// only determines the order.
type Reranker interface {
	Rerank(ctx context.Context, query string, results []retrieval.Result) ([]retrieval.Result, error)
}

// Scorer rates the relevance of a single (query, passage) pair. Higher is
// more relevant.
type Scorer interface {
	ScorePair(ctx context.Context, query, passage string) (float64, error)
}

// CrossEncoder is a Reranker over any pairwise Scorer.
type CrossEncoder struct {
	scorer Scorer
}

func NewCrossEncoder(scorer Scorer) *CrossEncoder {
	return &CrossEncoder{scorer: scorer}
}

func (c *CrossEncoder) Rerank(ctx context.Context, query string, results []retrieval.Result) ([]retrieval.Result, error) {
	if len(results) == 0 {
		return results, nil
	}
	if c.scorer == nil {
		return nil, fmt.Errorf("scorer is not configured")
	}

	scores := make([]float64, len(results))
	for i, result := range results {
		score, err := c.scorer.ScorePair(ctx, query, result.Text)
		if err != nil {
			return nil, fmt.Errorf("score candidate %s: %w", result.SourceID, err)
		}
		scores[i] = score
	}

	reordered := make([]retrieval.Result, len(results))
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	// Stable so candidates with equal scores keep their retrieval order.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for i, idx := range order {
		reordered[i] = results[idx]
	}

	return reordered, nil
}

var _ Reranker = (*CrossEncoder)(nil)

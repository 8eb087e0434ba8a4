// Package assistant wires retrieval, optional reranking, prompt assembly
// and the completion call into the answer pipeline, and shapes the model
// output into the structured response.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/NikshepShetty/vaa-genai-technical-test/llm"
	"github.com/NikshepShetty/vaa-genai-technical-test/prompt"
	"github.com/NikshepShetty/vaa-genai-technical-test/rerank"
	"github.com/NikshepShetty/vaa-genai-technical-test/retrieval"
)

// Retriever is the slice of the retrieval layer the service consumes.
type Retriever interface {
	Retrieve(ctx context.Context, query, category string, k int) ([]retrieval.Result, error)
}

// Answer is the structured response for one query. Confidence is the best
// match's similarity as a percentage, nil when no context was retrieved.
type Answer struct {
	Text       string
	Sources    []string
	Confidence *float64
}

// Service answers help queries. Construct once, load the corpus once, serve
// many queries. The reranker is decided at construction time; nil disables
// the stage.
type Service struct {
	retriever Retriever
	reranker  rerank.Reranker
	llm       llm.Client
	logger    *log.Logger
}

func NewService(retriever Retriever, reranker rerank.Reranker, llmClient llm.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		retriever: retriever,
		reranker:  reranker,
		llm:       llmClient,
		logger:    logger,
	}
}

// Answer runs the full pipeline for query. A k of 0 means the default
// result count. When nothing relevant is retrieved the fixed no-information
// sentence is returned and the language model is not called, so the
// sentence is exact rather than paraphrased.
func (s *Service) Answer(ctx context.Context, query, category string, k int) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, fmt.Errorf("query cannot be empty")
	}
	if s.retriever == nil {
		return Answer{}, fmt.Errorf("retriever is not configured")
	}
	if s.llm == nil {
		return Answer{}, fmt.Errorf("llm client is not configured")
	}

	results, err := s.retriever.Retrieve(ctx, query, category, k)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		s.logger.Printf("no relevant help content for query, returning fixed answer")
		return Answer{Text: prompt.NoAnswerSentence, Sources: []string{}}, nil
	}

	if s.reranker != nil {
		reranked, rerankErr := s.reranker.Rerank(ctx, query, results)
		if rerankErr != nil {
			return Answer{}, fmt.Errorf("rerank context: %w", rerankErr)
		}
		results = reranked
	}

	passages := make([]prompt.Passage, len(results))
	for i, result := range results {
		passages[i] = prompt.Passage{SourceID: result.SourceID, Text: result.Text}
	}

	raw, err := s.llm.Complete(ctx, prompt.SystemInstruction, prompt.Assemble(query, passages))
	if err != nil {
		return Answer{}, fmt.Errorf("llm completion: %w", err)
	}

	return shape(raw, results), nil
}

// shape builds the structured answer from the raw model output and the
// retrieval results that grounded it.
func shape(raw string, results []retrieval.Result) Answer {
	confidence := results[0].Score * 100
	return Answer{
		Text:       strings.TrimSpace(raw),
		Sources:    uniqueSources(results),
		Confidence: &confidence,
	}
}

// uniqueSources deduplicates source identifiers preserving first-occurrence
// order.
func uniqueSources(results []retrieval.Result) []string {
	seen := make(map[string]struct{}, len(results))
	sources := make([]string, 0, len(results))
	for _, result := range results {
		if _, ok := seen[result.SourceID]; ok {
			continue
		}
		seen[result.SourceID] = struct{}{}
		sources = append(sources, result.SourceID)
	}
	return sources
}

package assistant

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/NikshepShetty/vaa-genai-technical-test/llm"
	"github.com/NikshepShetty/vaa-genai-technical-test/prompt"
	"github.com/NikshepShetty/vaa-genai-technical-test/rerank"
	"github.com/NikshepShetty/vaa-genai-technical-test/retrieval"
)

type stubRetriever struct {
	results []retrieval.Result
	err     error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query, category string, k int) ([]retrieval.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

var _ Retriever = (*stubRetriever)(nil)

type stubLLM struct {
	answer     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

var _ llm.Client = (*stubLLM)(nil)

type reverseReranker struct{}

func (reverseReranker) Rerank(ctx context.Context, query string, results []retrieval.Result) ([]retrieval.Result, error) {
	reversed := make([]retrieval.Result, len(results))
	for i, result := range results {
		reversed[len(results)-1-i] = result
	}
	return reversed, nil
}

var _ rerank.Reranker = reverseReranker{}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestAnswerReturnsGroundedResponse(t *testing.T) {
	retriever := &stubRetriever{results: []retrieval.Result{
		{SourceID: "contact_001", Text: "Call +44 344 874 7747.", Score: 0.91},
		{SourceID: "contact_002", Text: "Live chat is also available.", Score: 0.55},
	}}
	completion := &stubLLM{answer: "Call +44 344 874 7747. [contact_001]"}
	svc := NewService(retriever, nil, completion, testLogger())

	answer, err := svc.Answer(context.Background(), "What is the customer support number?", "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Text != "Call +44 344 874 7747. [contact_001]" {
		t.Fatalf("unexpected answer: %q", answer.Text)
	}
	if len(answer.Sources) != 2 || answer.Sources[0] != "contact_001" || answer.Sources[1] != "contact_002" {
		t.Fatalf("unexpected sources: %v", answer.Sources)
	}
	if answer.Confidence == nil {
		t.Fatal("expected confidence to be set")
	}
	if *answer.Confidence < 0 || *answer.Confidence > 100 {
		t.Fatalf("confidence out of range: %f", *answer.Confidence)
	}
	if *answer.Confidence != 91 {
		t.Fatalf("expected confidence 91, got %f", *answer.Confidence)
	}
	if completion.lastSystem != prompt.SystemInstruction {
		t.Fatalf("unexpected system instruction: %q", completion.lastSystem)
	}
	if !strings.Contains(completion.lastUser, "Call +44 344 874 7747.") {
		t.Fatal("retrieved context missing from prompt")
	}
}

func TestAnswerDeduplicatesSourcesPreservingOrder(t *testing.T) {
	retriever := &stubRetriever{results: []retrieval.Result{
		{SourceID: "doc-b", Text: "b1", Score: 0.9},
		{SourceID: "doc-a", Text: "a1", Score: 0.8},
		{SourceID: "doc-b", Text: "b2", Score: 0.7},
		{SourceID: "doc-a", Text: "a2", Score: 0.6},
	}}
	svc := NewService(retriever, nil, &stubLLM{answer: "answer"}, testLogger())

	answer, err := svc.Answer(context.Background(), "question", "", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(answer.Sources) != 2 || answer.Sources[0] != "doc-b" || answer.Sources[1] != "doc-a" {
		t.Fatalf("unexpected source order: %v", answer.Sources)
	}
}

func TestAnswerShortCircuitsWithoutContext(t *testing.T) {
	completion := &stubLLM{answer: "should never be used"}
	svc := NewService(&stubRetriever{}, nil, completion, testLogger())

	answer, err := svc.Answer(context.Background(), "Do you offer student discounts?", "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Text != prompt.NoAnswerSentence {
		t.Fatalf("unexpected answer: %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", answer.Sources)
	}
	if answer.Confidence != nil {
		t.Fatalf("expected nil confidence, got %f", *answer.Confidence)
	}
	if completion.calls != 0 {
		t.Fatalf("LLM was called %d times despite empty retrieval", completion.calls)
	}
}

func TestAnswerUsesRerankedOrder(t *testing.T) {
	retriever := &stubRetriever{results: []retrieval.Result{
		{SourceID: "doc-a", Text: "a", Score: 0.9},
		{SourceID: "doc-b", Text: "b", Score: 0.2},
	}}
	svc := NewService(retriever, reverseReranker{}, &stubLLM{answer: "answer"}, testLogger())

	answer, err := svc.Answer(context.Background(), "question", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Sources[0] != "doc-b" {
		t.Fatalf("rerank order not used: %v", answer.Sources)
	}
	// Confidence follows the best-ranked result after reranking.
	if *answer.Confidence != 20 {
		t.Fatalf("expected confidence 20, got %f", *answer.Confidence)
	}
}

func TestAnswerValidatesQuery(t *testing.T) {
	svc := NewService(&stubRetriever{}, nil, &stubLLM{}, testLogger())
	if _, err := svc.Answer(context.Background(), "   ", "", 3); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestAnswerPropagatesRetrievalError(t *testing.T) {
	wantErr := &retrieval.InvalidCategoryError{Category: "invalid_category"}
	svc := NewService(&stubRetriever{err: wantErr}, nil, &stubLLM{}, testLogger())

	_, err := svc.Answer(context.Background(), "question", "invalid_category", 3)

	var invalidCategory *retrieval.InvalidCategoryError
	if !errors.As(err, &invalidCategory) {
		t.Fatalf("expected InvalidCategoryError, got %v", err)
	}
}

func TestAnswerPropagatesLLMError(t *testing.T) {
	retriever := &stubRetriever{results: []retrieval.Result{
		{SourceID: "doc-a", Text: "a", Score: 0.9},
	}}
	svc := NewService(retriever, nil, &stubLLM{err: llm.ErrCompleteFailed}, testLogger())

	_, err := svc.Answer(context.Background(), "question", "", 3)
	if !errors.Is(err, llm.ErrCompleteFailed) {
		t.Fatalf("expected completion failure, got %v", err)
	}
}

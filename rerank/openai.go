package rerank

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const scorerSystemPrompt = "You rate how relevant a passage is to a question. " +
	"Reply with a single number between 0 and 10, where 0 means completely irrelevant " +
	"and 10 means the passage directly answers the question. Reply with the number only."

// OpenAIScorer rates (query, passage) pairs with a chat completion call.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

type ScorerOptions struct {
	Model         string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func NewOpenAIScorer(opts ScorerOptions) *OpenAIScorer {
	cfg := openai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}

	return &OpenAIScorer{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

func (s *OpenAIScorer) ScorePair(ctx context.Context, query, passage string) (float64, error) {
	user := fmt.Sprintf("Question: %s\n\nPassage:\n%s", query, passage)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		MaxTokens:   4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scorerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("create rerank completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("rerank completion returned no choices")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rerank score %q: %w", raw, err)
	}

	return score, nil
}

var _ Scorer = (*OpenAIScorer)(nil)

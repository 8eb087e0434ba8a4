package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

type ollamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(opts Options) (Client, error) {
	hostURL := envconfig.Host()
	if opts.OllamaHost != "" {
		parsed, err := url.Parse(opts.OllamaHost)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host: %w", err)
		}
		hostURL = parsed
	}

	return &ollamaClient{
		client: api.NewClient(hostURL, http.DefaultClient),
		model:  opts.Model,
	}, nil
}

func (c *ollamaClient) Complete(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: &stream,
	}

	var builder strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		_, writeErr := builder.WriteString(resp.Message.Content)
		return writeErr
	})
	if err != nil {
		return "", fmt.Errorf("%w: call ollama chat API: %v", ErrCompleteFailed, err)
	}

	return builder.String(), nil
}

var _ Client = (*ollamaClient)(nil)

package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

type ollamaEmbedder struct {
	client    *api.Client
	model     string
	dimension int
}

func NewOllamaEmbedder(opts Options) (Embedder, error) {
	hostURL := envconfig.Host()
	if opts.OllamaHost != "" {
		parsed, err := url.Parse(opts.OllamaHost)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host: %w", err)
		}
		hostURL = parsed
	}

	return &ollamaEmbedder{
		client:    api.NewClient(hostURL, http.DefaultClient),
		model:     opts.Model,
		dimension: opts.Dimension,
	}, nil
}

func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))

	for _, text := range texts {
		resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
			Model:  e.model,
			Prompt: text,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: call ollama embeddings API: %v", ErrEmbedFailed, err)
		}

		vec := make([]float32, len(resp.Embedding))
		for i, value := range resp.Embedding {
			vec[i] = float32(value)
		}

		if e.dimension > 0 && len(vec) != e.dimension {
			return nil, fmt.Errorf("ollama embedding dimension mismatch: expected %d, got %d", e.dimension, len(vec))
		}

		results = append(results, vec)
	}

	return results, nil
}

var _ Embedder = (*ollamaEmbedder)(nil)

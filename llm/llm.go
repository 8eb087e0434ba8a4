package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikshepShetty/vaa-genai-technical-test/config"
)

// ErrCompleteFailed marks failures of the external completion call.
var ErrCompleteFailed = errors.New("completion call failed")

// Client produces a single completion from a system instruction and a user
// prompt. Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Options struct {
	Provider string
	Model    string

	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func NewClient(cfg config.Config) (Client, error) {
	opts := Options{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		OllamaHost:    cfg.OllamaHost,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	}

	switch opts.Provider {
	case config.ProviderOllama:
		return NewOllamaClient(opts)
	case config.ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}

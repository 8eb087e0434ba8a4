package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type EmbeddingsConfig struct {
	Provider  string
	Model     string
	Dimension int
}

type LLMConfig struct {
	Provider string
	Model    string
}

type RerankConfig struct {
	Enabled bool
	Model   string
}

type Config struct {
	PostgresDSN string
	ContentPath string
	HTTPAddr    string

	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	Embeddings EmbeddingsConfig
	LLM        LLMConfig
	Rerank     RerankConfig
}

func Load() Config {
	return Config{
		PostgresDSN: getEnv("POSTGRES_DSN", "postgres://localhost:5432/help-assistant?sslmode=disable"),
		ContentPath: getEnv("CONTENT_PATH", "seed_data/help_content.json"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),

		OllamaHost:    getEnv("OLLAMA_HOST", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		Embeddings: EmbeddingsConfig{
			Provider:  getEnv("EMBEDDINGS_PROVIDER", ProviderOpenAI),
			Model:     getEnv("EMBEDDINGS_MODEL", "text-embedding-3-small"),
			Dimension: getEnvInt("EMBEDDINGS_DIMENSION", 1536),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", ProviderOpenAI),
			Model:    getEnv("LLM_MODEL", "gpt-3.5-turbo"),
		},
		Rerank: RerankConfig{
			Enabled: getEnvBool("RERANK_ENABLED", false),
			Model:   getEnv("RERANK_MODEL", "gpt-4o-mini"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return fallback
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NikshepShetty/vaa-genai-technical-test/api"
	"github.com/NikshepShetty/vaa-genai-technical-test/assistant"
	"github.com/NikshepShetty/vaa-genai-technical-test/config"
	"github.com/NikshepShetty/vaa-genai-technical-test/database"
	"github.com/NikshepShetty/vaa-genai-technical-test/embeddings"
	"github.com/NikshepShetty/vaa-genai-technical-test/llm"
	"github.com/NikshepShetty/vaa-genai-technical-test/rerank"
	"github.com/NikshepShetty/vaa-genai-technical-test/retrieval"
	"github.com/NikshepShetty/vaa-genai-technical-test/store"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "load":
		loadCmd(cfg, logger, os.Args[2:])
	case "ask":
		askCmd(cfg, logger, os.Args[2:])
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("load", flag.ExitOnError)
	path := flags.String("content", cfg.ContentPath, "path to the help content JSON file")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse load flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	index, pool, err := newIndex(ctx, cfg)
	if err != nil {
		logger.Fatalf("index setup: %v", err)
	}
	defer pool.Close()

	loaded, skipped, err := assistant.LoadCorpus(ctx, index, *path, logger)
	if err != nil {
		logger.Fatalf("load corpus: %v", err)
	}

	logger.Printf("loaded %d help chunks (%d records skipped) from %s", loaded, skipped, *path)
}

func askCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	question := flags.String("question", "", "question to ask the help assistant")
	category := flags.String("category", "", "optional category filter")
	k := flags.Int("k", 0, "number of help chunks to retrieve")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ask flags: %v", err)
	}

	if *question == "" {
		logger.Fatal("a question is required, use -question")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, pool, err := newService(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("service setup: %v", err)
	}
	defer pool.Close()

	answer, err := svc.Answer(ctx, *question, *category, *k)
	if err != nil {
		var invalidCategory *retrieval.InvalidCategoryError
		if errors.As(err, &invalidCategory) {
			logger.Fatalf("invalid request: %v", err)
		}
		logger.Fatalf("answer failed: %v", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for idx, source := range answer.Sources {
			fmt.Printf("%d. %s\n", idx+1, source)
		}
	}
	if answer.Confidence != nil {
		fmt.Printf("\nConfidence: %.1f%%\n", *answer.Confidence)
	}
}

func serveCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.HTTPAddr, "address to listen on")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse serve flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, pool, err := newService(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("service setup: %v", err)
	}
	defer pool.Close()

	server := &http.Server{
		Addr:    *addr,
		Handler: api.New(svc, logger).Handler(),
	}

	go func() {
		<-ctx.Done()
		logger.Println("shutting down")
		_ = server.Shutdown(context.Background())
	}()

	logger.Printf("help assistant listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}

func newIndex(ctx context.Context, cfg config.Config) (*store.PostgresIndex, *pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres connection: %w", err)
	}

	if err := database.EnsureHelpSchema(ctx, pool, cfg.Embeddings.Dimension); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("embedder setup: %w", err)
	}

	return store.NewPostgresIndex(pool, embedder), pool, nil
}

func newService(ctx context.Context, cfg config.Config, logger *log.Logger) (*assistant.Service, *pgxpool.Pool, error) {
	index, pool, err := newIndex(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("llm setup: %w", err)
	}

	var reranker rerank.Reranker
	if cfg.Rerank.Enabled {
		reranker = rerank.NewCrossEncoder(rerank.NewOpenAIScorer(rerank.ScorerOptions{
			Model:         cfg.Rerank.Model,
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
		}))
	}

	retriever := retrieval.NewRetriever(index)
	return assistant.NewService(retriever, reranker, llmClient, logger), pool, nil
}

func printUsage() {
	fmt.Println("Usage: help-assistant <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  load     Load the help content corpus into the embedding index (use -content to override the path)")
	fmt.Println("  ask      Ask a question against the loaded corpus (-question, -category, -k)")
	fmt.Println("  serve    Start the HTTP API (-addr)")
}

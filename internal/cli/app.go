package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/factlens/factlens/internal/analysis"
	"github.com/factlens/factlens/internal/cache"
	"github.com/factlens/factlens/internal/collect"
	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/fetch"
	"github.com/factlens/factlens/internal/index"
	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/pipeline"
	"github.com/factlens/factlens/internal/prompt"
	"github.com/factlens/factlens/internal/transcript"
)

// buildPipeline assembles the full verification pipeline from config.
// Every collaborator is constructed here so commands stay thin.
func buildPipeline(cfg config.Config, progress pipeline.Progress, log *slog.Logger) (*pipeline.Pipeline, error) {
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := llm.NewProvider(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create reasoning provider: %w", err)
	}

	prompts, err := prompt.NewManager(cfg.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	transcriber, err := transcript.NewYouTubeTranscriber(transcript.Config{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.Transcribe.Model,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}

	collector, err := buildCollector(cfg, log)
	if err != nil {
		return nil, err
	}

	embedder, err := index.NewOpenAIEmbedder(index.OpenAIEmbedderConfig{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	store, err := buildStore(cfg, log)
	if err != nil {
		return nil, err
	}

	indexer, err := index.NewService(store, embedder, index.ServiceConfig{
		ChunkSize: cfg.Chunk.Size,
		Overlap:   cfg.Chunk.Overlap,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create index service: %w", err)
	}

	return pipeline.New(pipeline.Options{
		Transcriber: transcriber,
		Analyzer:    analysis.NewAnalyzer(provider, prompts, log),
		Collector:   collector,
		Normalizer:  collect.Normalize,
		Indexer:     indexer,
		Retriever:   index.NewRetriever(embedder, store, log),
		Verdictor:   analysis.NewFactChecker(provider, prompts, log),
		SearchLimit: cfg.Search.Limit,
		Progress:    progress,
		Logger:      log,
	})
}

// buildCollector assembles the configured sources behind one collector
func buildCollector(cfg config.Config, log *slog.Logger) (pipeline.Collector, error) {
	var fetcher *fetch.Fetcher
	if cfg.Collect.FetchBody {
		fetcher = fetch.NewFetcher(cfg.Collect.Timeout, cfg.Collect.UserAgent, 0)
	}

	var sources []collect.Collector
	for _, name := range cfg.Collect.Sources {
		switch name {
		case "arxiv":
			sources = append(sources, collect.NewArxivCollector(cfg.Collect.MaxResults, fetcher, log))
		case "pubmed":
			sources = append(sources, collect.NewPubMedCollector(cfg.Collect.MaxResults, log))
		default:
			return nil, fmt.Errorf("unknown collect source %q", name)
		}
	}

	opts := []collect.MultiOption{collect.WithWorkers(cfg.Collect.Workers)}
	if cfg.Collect.CacheTTL > 0 {
		var c cache.Cache
		if cfg.Collect.CacheDir != "" {
			c = cache.NewLayeredCache(cfg.Collect.CacheTTL, cfg.Collect.CacheDir, cfg.Collect.CacheTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Collect.CacheTTL, 10*time.Minute)
		}
		opts = append(opts, collect.WithCache(c, cfg.Collect.CacheTTL))
	}

	return collect.NewMultiCollector(sources, cfg.Collect.RequestsPerSecond, log, opts...), nil
}

// buildStore connects to the configured vector store
func buildStore(cfg config.Config, log *slog.Logger) (*index.QdrantStore, error) {
	store, err := index.NewQdrantStore(index.QdrantConfig{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
		BatchSize:  cfg.Qdrant.BatchSize,
		Timeout:    cfg.Qdrant.Timeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create vector store: %w", err)
	}
	return store, nil
}

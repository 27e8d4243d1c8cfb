package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full FactLens configuration. Values come from flags, the
// FACTLENS_* environment, ~/.factlens/config.yaml and built-in defaults, in
// that priority order.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Transcribe TranscribeConfig `yaml:"transcribe" mapstructure:"transcribe"`
	Embedding  EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	Qdrant     QdrantConfig     `yaml:"qdrant" mapstructure:"qdrant"`
	Collect    CollectConfig    `yaml:"collect" mapstructure:"collect"`
	Chunk      ChunkConfig      `yaml:"chunk" mapstructure:"chunk"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	PromptDir  string           `yaml:"prompt_dir" mapstructure:"prompt_dir"`
}

// LLMConfig configures the reasoning provider used for claim/evidence
// extraction, keyword derivation and the final verdict.
type LLMConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"-" mapstructure:"-"` // env only, never persisted
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TranscribeConfig configures speech-to-text extraction.
type TranscribeConfig struct {
	Model string `yaml:"model" mapstructure:"model"`
}

// EmbeddingConfig configures the embedding model. Dimensions must match the
// vector store's vector size; Validate enforces that at startup.
type EmbeddingConfig struct {
	Model      string `yaml:"model" mapstructure:"model"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
}

// QdrantConfig configures the vector store.
type QdrantConfig struct {
	URL        string        `yaml:"url" mapstructure:"url"`
	APIKey     string        `yaml:"-" mapstructure:"-"`
	Collection string        `yaml:"collection" mapstructure:"collection"`
	VectorSize int           `yaml:"vector_size" mapstructure:"vector_size"`
	BatchSize  int           `yaml:"batch_size" mapstructure:"batch_size"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CollectConfig configures literature collection.
type CollectConfig struct {
	Sources           []string      `yaml:"sources" mapstructure:"sources"` // arxiv, pubmed
	MaxResults        int           `yaml:"max_results" mapstructure:"max_results"`
	FetchBody         bool          `yaml:"fetch_body" mapstructure:"fetch_body"`
	Workers           int           `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	CacheDir          string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ChunkConfig controls document chunking before embedding.
type ChunkConfig struct {
	Size    int `yaml:"size" mapstructure:"size"`
	Overlap int `yaml:"overlap" mapstructure:"overlap"`
}

// SearchConfig controls similarity retrieval.
type SearchConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  60 * time.Second,
		},
		Transcribe: TranscribeConfig{
			Model: "whisper-1",
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "papers",
			VectorSize: 1536,
			BatchSize:  500,
			Timeout:    30 * time.Second,
		},
		Collect: CollectConfig{
			Sources:           []string{"arxiv"},
			MaxResults:        10,
			Workers:           3,
			RequestsPerSecond: 0.34, // arXiv asks for roughly one request every 3s
			Burst:             1,
			CacheTTL:          time.Hour,
			UserAgent:         "FactLens/0.1 (+https://github.com/factlens/factlens)",
			Timeout:           60 * time.Second,
		},
		Chunk: ChunkConfig{
			Size:    1500,
			Overlap: 100,
		},
		Search: SearchConfig{
			Limit: 5,
		},
	}
}

// Load builds the configuration from viper state plus the environment.
// API keys are only ever read from the environment.
func Load() (Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Qdrant.APIKey = os.Getenv("QDRANT_API_KEY")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations that would only fail deep inside a run.
// The embedding dimension / vector size coupling in particular must be caught
// here, not on the first upload.
func (c Config) Validate() error {
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Qdrant.VectorSize <= 0 {
		return fmt.Errorf("qdrant.vector_size must be positive, got %d", c.Qdrant.VectorSize)
	}
	if c.Embedding.Dimensions != c.Qdrant.VectorSize {
		return fmt.Errorf("embedding.dimensions (%d) does not match qdrant.vector_size (%d)",
			c.Embedding.Dimensions, c.Qdrant.VectorSize)
	}
	if c.Chunk.Size <= 0 {
		return fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size)
	}
	if c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.Size {
		return fmt.Errorf("chunk.overlap must be in [0, chunk.size), got %d", c.Chunk.Overlap)
	}
	if c.Qdrant.BatchSize <= 0 {
		return fmt.Errorf("qdrant.batch_size must be positive, got %d", c.Qdrant.BatchSize)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive, got %d", c.Search.Limit)
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant.collection must not be empty")
	}
	for _, s := range c.Collect.Sources {
		switch s {
		case "arxiv", "pubmed":
		default:
			return fmt.Errorf("unknown collect source %q (supported: arxiv, pubmed)", s)
		}
	}
	return nil
}

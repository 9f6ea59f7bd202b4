// Package config provides configuration loading and validation for midashi.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig holds ONNX embedder settings. An empty ModelPath selects
// the deterministic built-in embedder.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// ScoringConfig holds pairwise scorer settings. An empty ModelPath selects
// the lexical scorer instead of the ONNX cross-encoder.
type ScoringConfig struct {
	ModelPath string `yaml:"model_path"`
	MaxTokens int    `yaml:"max_tokens"`
}

// PipelineConfig holds the relevance pipeline knobs.
type PipelineConfig struct {
	// TopK is the recall width: how many chunks the vector index returns
	// for reranking. Must be at least TopN.
	TopK int `yaml:"top_k"`
	// TopN is how many sections the final output contains.
	TopN int `yaml:"top_n"`
	// TopM is how many sentences are kept per output section.
	TopM int `yaml:"top_m_sentences"`
	// Workers bounds the parallel embedding fan-out.
	Workers int `yaml:"workers"`
}

// ChunkingConfig holds chunking settings.
type ChunkingConfig struct {
	// MaxChunkTokens is the token ceiling above which a chunk is split at
	// sentence boundaries.
	MaxChunkTokens int `yaml:"max_chunk_tokens"`
}

// Load reads and parses the config file at path, expands model paths,
// applies defaults, and validates. Returns an error if the file cannot be
// read or parsed, or if any value is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Scoring.ModelPath = expandPath(cfg.Scoring.ModelPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with all defaults applied, for running without a
// config file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Validate checks that all knobs are positive and that the recall width can
// cover the output width. Called before any document is touched.
func (c *Config) Validate() error {
	if c.Pipeline.TopK <= 0 {
		return fmt.Errorf("pipeline.top_k must be positive, got %d", c.Pipeline.TopK)
	}
	if c.Pipeline.TopN <= 0 {
		return fmt.Errorf("pipeline.top_n must be positive, got %d", c.Pipeline.TopN)
	}
	if c.Pipeline.TopM <= 0 {
		return fmt.Errorf("pipeline.top_m_sentences must be positive, got %d", c.Pipeline.TopM)
	}
	if c.Pipeline.TopK < c.Pipeline.TopN {
		return fmt.Errorf("pipeline.top_k (%d) must be at least pipeline.top_n (%d)", c.Pipeline.TopK, c.Pipeline.TopN)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline.workers must be positive, got %d", c.Pipeline.Workers)
	}
	if c.Chunking.MaxChunkTokens <= 0 {
		return fmt.Errorf("chunking.max_chunk_tokens must be positive, got %d", c.Chunking.MaxChunkTokens)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Scoring.MaxTokens == 0 {
		cfg.Scoring.MaxTokens = 512
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 20
	}
	if cfg.Pipeline.TopN == 0 {
		cfg.Pipeline.TopN = 10
	}
	if cfg.Pipeline.TopM == 0 {
		cfg.Pipeline.TopM = 3
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 4
	}
	if cfg.Chunking.MaxChunkTokens == 0 {
		cfg.Chunking.MaxChunkTokens = 512
	}
}

package model

import "time"

// Config is the full runtime configuration, populated from defaults,
// ~/.strata/config.yaml, STRATA_* environment variables, and flags.
type Config struct {
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig tunes the engine's outer surfaces (never its thresholds;
// percentile cutoffs are population-relative by design, not configurable)
type AnalysisConfig struct {
	TopStatements int `yaml:"top_statements" mapstructure:"top_statements"` // Cap for shadow unindexed statements
}

// CacheConfig controls memoization of analysis results
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig controls batch processing parallelism
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// LLMConfig configures the optional shadow extraction pass
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama" or "" (disabled)
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Pretty        bool `yaml:"pretty" mapstructure:"pretty"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			TopStatements: 10,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		LLM: LLMConfig{
			Provider:          "",
			Model:             "gpt-4o-mini",
			TimeoutSeconds:    30,
			MaxTokens:         1000,
			RequestsPerSecond: 1,
		},
		Output: OutputConfig{
			Pretty:        true,
			IncludeFooter: true,
		},
	}
}

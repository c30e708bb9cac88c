// Package config provides configuration loading and validation for the match engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Default tuning values applied by MergeWithDefaults.
const (
	DefaultEmbeddingModel   = "text-embedding-004"
	DefaultAnalysisModel    = "gemini-1.5-flash"
	DefaultChunkSpanDays    = 7
	DefaultDeepThreshold    = 70
	DefaultColdStartWorkers = 4
	DefaultKeywordBatchSize = 2
	DefaultProviderPages    = 2
)

// Config holds everything a match run needs. Values can come from a JSON file,
// environment variables, or CLI flags; missing tuning values fall back to
// defaults, missing credentials are a fatal configuration error.
type Config struct {
	// Credentials and endpoints
	DatabaseURL   string `json:"database_url,omitempty" validate:"required"`
	GeminiAPIKey  string `json:"gemini_api_key,omitempty" validate:"required"`
	JSearchAPIKey string `json:"jsearch_api_key,omitempty"` // general provider; its cold-start tasks fail soft without it

	// Models
	EmbeddingModel string `json:"embedding_model,omitempty"`
	AnalysisModel  string `json:"analysis_model,omitempty"`

	// Pipeline tuning
	ChunkSpanDays int `json:"chunk_span_days,omitempty" validate:"gt=0"`
	// DeepThreshold is the semantic score (0-100) a candidate must reach to be
	// sent to contextual analysis. There is exactly one threshold for the whole
	// pipeline.
	DeepThreshold    int `json:"deep_threshold" validate:"gte=0,lte=100"`
	ColdStartWorkers int `json:"cold_start_workers,omitempty" validate:"gt=0"`
	KeywordBatchSize int `json:"keyword_batch_size,omitempty" validate:"gt=0"`
	ProviderPages    int `json:"provider_pages,omitempty" validate:"gt=0"`

	// Logging
	Debug    bool `json:"debug,omitempty"`
	JSONLogs bool `json:"json_logs,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills credential fields from the environment. File and flag values
// win over environment values.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.JSearchAPIKey == "" {
		c.JSearchAPIKey = os.Getenv("JSEARCH_API_KEY")
	}
}

// MergeWithDefaults returns a copy with zero-valued tuning fields filled in.
func (c *Config) MergeWithDefaults() Config {
	result := *c

	if result.EmbeddingModel == "" {
		result.EmbeddingModel = DefaultEmbeddingModel
	}
	if result.AnalysisModel == "" {
		result.AnalysisModel = DefaultAnalysisModel
	}
	if result.ChunkSpanDays == 0 {
		result.ChunkSpanDays = DefaultChunkSpanDays
	}
	if result.DeepThreshold == 0 {
		result.DeepThreshold = DefaultDeepThreshold
	}
	if result.ColdStartWorkers == 0 {
		result.ColdStartWorkers = DefaultColdStartWorkers
	}
	if result.KeywordBatchSize == 0 {
		result.KeywordBatchSize = DefaultKeywordBatchSize
	}
	if result.ProviderPages == 0 {
		result.ProviderPages = DefaultProviderPages
	}

	return result
}

// Validate checks the configuration after merging. A failure here is fatal to
// a run before any external call is made.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return fmt.Errorf("config error: field %s failed %q validation", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

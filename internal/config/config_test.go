package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/matches",
		"gemini_api_key": "g-key",
		"deep_threshold": 50,
		"chunk_span_days": 14,
		"debug": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/matches", cfg.DatabaseURL)
	assert.Equal(t, "g-key", cfg.GeminiAPIKey)
	assert.Equal(t, 50, cfg.DeepThreshold)
	assert.Equal(t, 14, cfg.ChunkSpanDays)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfigFile(t, "{not json"))
	assert.Error(t, err)
}

func TestFromEnv_FillsOnlyEmptyFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("JSEARCH_API_KEY", "env-jsearch")

	cfg := &Config{DatabaseURL: "postgres://file/db"}
	cfg.FromEnv()

	// A value from the file wins over the environment.
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "env-gemini", cfg.GeminiAPIKey)
	assert.Equal(t, "env-jsearch", cfg.JSearchAPIKey)
}

func TestMergeWithDefaults(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults()
	assert.Equal(t, DefaultEmbeddingModel, merged.EmbeddingModel)
	assert.Equal(t, DefaultAnalysisModel, merged.AnalysisModel)
	assert.Equal(t, DefaultChunkSpanDays, merged.ChunkSpanDays)
	assert.Equal(t, DefaultDeepThreshold, merged.DeepThreshold)
	assert.Equal(t, DefaultColdStartWorkers, merged.ColdStartWorkers)
	assert.Equal(t, DefaultKeywordBatchSize, merged.KeywordBatchSize)
	assert.Equal(t, DefaultProviderPages, merged.ProviderPages)

	// Explicit values survive the merge.
	custom := (&Config{DeepThreshold: 55, ChunkSpanDays: 3}).MergeWithDefaults()
	assert.Equal(t, 55, custom.DeepThreshold)
	assert.Equal(t, 3, custom.ChunkSpanDays)
}

func TestValidate(t *testing.T) {
	valid := (&Config{
		DatabaseURL:  "postgres://localhost/matches",
		GeminiAPIKey: "g-key",
	}).MergeWithDefaults()
	assert.NoError(t, valid.Validate())

	missingDB := valid
	missingDB.DatabaseURL = ""
	err := missingDB.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseURL")

	badThreshold := valid
	badThreshold.DeepThreshold = 150
	assert.Error(t, badThreshold.Validate())

	// The general provider key is optional.
	noJSearch := valid
	noJSearch.JSearchAPIKey = ""
	assert.NoError(t, noJSearch.Validate())
}

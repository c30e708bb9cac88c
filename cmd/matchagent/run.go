package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Inclusist/job-monitor-sub001/internal/acquisition"
	"github.com/Inclusist/job-monitor-sub001/internal/analysis"
	"github.com/Inclusist/job-monitor-sub001/internal/config"
	"github.com/Inclusist/job-monitor-sub001/internal/embedding"
	"github.com/Inclusist/job-monitor-sub001/internal/llm"
	"github.com/Inclusist/job-monitor-sub001/internal/logging"
	"github.com/Inclusist/job-monitor-sub001/internal/matching"
	"github.com/Inclusist/job-monitor-sub001/internal/progress"
	"github.com/Inclusist/job-monitor-sub001/internal/store"
)

var (
	runConfigPath string
	runSeekerID   string
	runDebug      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one match run for a seeker",
	RunE: func(cmd *cobra.Command, args []string) error {
		seekerID, err := uuid.Parse(runSeekerID)
		if err != nil {
			return fmt.Errorf("invalid seeker id %q: %w", runSeekerID, err)
		}

		cfg, err := loadConfig(runConfigPath)
		if err != nil {
			return err
		}
		if runDebug {
			cfg.Debug = true
		}

		logger, err := logging.New(cfg.JSONLogs, cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		ctx := context.Background()

		db, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.AnalysisModel, cfg.EmbeddingModel)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		providers := []acquisition.Provider{
			acquisition.NewJSearchProvider(cfg.JSearchAPIKey, ""),
			acquisition.NewArbeitnowProvider("", nil),
		}
		fetcher := acquisition.NewFetcher(providers, db, logger, acquisition.FetcherConfig{
			Workers:          cfg.ColdStartWorkers,
			KeywordBatchSize: cfg.KeywordBatchSize,
			Pages:            cfg.ProviderPages,
		})

		engine := matching.NewEngine(
			db,
			embedding.NewEmbedder(client),
			analysis.NewAnalyzer(client, logger),
			fetcher,
			progress.NewTracker(),
			logger,
			matching.Config{
				ChunkSpanDays:   cfg.ChunkSpanDays,
				DeepThreshold:   cfg.DeepThreshold,
				CacheEmbeddings: true,
			},
		)

		if err := engine.Run(ctx, seekerID); err != nil {
			return err
		}

		if final, ok := engine.Tracker().Get(seekerID); ok {
			logger.Info("run finished",
				zap.String("status", string(final.Status)),
				zap.Int("matches_found", final.MatchesFound),
				zap.Int("jobs_analyzed", final.JobsAnalyzed))
		}
		return nil
	},
}

// loadConfig reads the optional config file, fills credentials from the
// environment and applies defaults.
func loadConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to JSON config file")
	runCmd.Flags().StringVar(&runSeekerID, "seeker", "", "Seeker UUID (required)")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
	_ = runCmd.MarkFlagRequired("seeker")
	rootCmd.AddCommand(runCmd)
}

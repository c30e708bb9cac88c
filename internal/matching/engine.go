// Package matching composes the full match pipeline for one seeker: optional
// cold-start acquisition, then a chunked loop of score, persist, deep-analyze,
// persist, with live progress at every stage boundary.
package matching

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Inclusist/job-monitor-sub001/internal/acquisition"
	"github.com/Inclusist/job-monitor-sub001/internal/analysis"
	"github.com/Inclusist/job-monitor-sub001/internal/progress"
	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// CandidateStore is the persistence contract the engine consumes. *store.DB
// satisfies it.
type CandidateStore interface {
	GetProfile(ctx context.Context, seekerID uuid.UUID) (*types.Profile, error)
	GetUnscoredCandidates(ctx context.Context, seekerID uuid.UUID, locationFilter []string) ([]types.CandidatePosting, error)
	GetExistingMatchCount(ctx context.Context, seekerID uuid.UUID) (int, error)
	UpsertMatchBatch(ctx context.Context, records []types.MatchRecord) (int, error)
	UpsertCandidateTags(ctx context.Context, tags []types.CandidateTags) (int, error)
	UpsertCandidateEmbeddings(ctx context.Context, embeddings []types.CandidateEmbedding) (int, error)
}

// Embedder is the embedding capability the engine consumes.
type Embedder interface {
	EmbedProfile(ctx context.Context, profile *types.Profile) ([]float32, error)
	EmbedTitles(ctx context.Context, titles []string) ([][]float32, error)
}

// DeepAnalyzer is the contextual-analysis capability the engine consumes.
type DeepAnalyzer interface {
	AnalyzeBatch(ctx context.Context, profile *types.Profile, candidates []types.CandidatePosting) (*analysis.Result, error)
}

// ColdStarter runs the first-time acquisition burst.
type ColdStarter interface {
	Run(ctx context.Context, profile *types.Profile, onProgress acquisition.ProgressFunc) (int, error)
}

// Config tunes one engine instance.
type Config struct {
	// ChunkSpanDays is the width of each date-bounded candidate batch.
	ChunkSpanDays int
	// DeepThreshold is the semantic score a candidate must reach before the
	// expensive contextual-analysis pass sees it.
	DeepThreshold int
	// CacheEmbeddings controls whether computed title vectors are written back
	// to storage for reuse by later runs.
	CacheEmbeddings bool
}

// Engine executes match runs. One run is a sequential unit of work per
// seeker; callers put concurrent seekers on separate goroutines and only the
// cold-start burst parallelizes internally.
type Engine struct {
	store     CandidateStore
	embedder  Embedder
	analyzer  DeepAnalyzer
	coldStart ColdStarter
	tracker   *progress.Tracker
	logger    *zap.Logger
	cfg       Config
}

// NewEngine wires an engine from its collaborators.
func NewEngine(store CandidateStore, embedder Embedder, analyzer DeepAnalyzer, coldStart ColdStarter, tracker *progress.Tracker, logger *zap.Logger, cfg Config) *Engine {
	if cfg.ChunkSpanDays <= 0 {
		cfg.ChunkSpanDays = 7
	}
	return &Engine{
		store:     store,
		embedder:  embedder,
		analyzer:  analyzer,
		coldStart: coldStart,
		tracker:   tracker,
		logger:    logger,
		cfg:       cfg,
	}
}

// Tracker exposes the progress tracker so an invoking layer can serve polls.
func (e *Engine) Tracker() *progress.Tracker {
	return e.tracker
}

package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Inclusist/job-monitor-sub001/internal/chunker"
	"github.com/Inclusist/job-monitor-sub001/internal/scoring"
	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Progress budget per stage. Chunk processing divides the remaining span
// evenly across chunks.
const (
	pctModelLoaded  = 5
	pctFetchStart   = 10
	pctFetchDone    = 25
	pctChunksStart  = 30
	pctChunksBudget = 100 - pctChunksStart
)

// Run executes one full match run for a seeker. It always leaves the
// seeker's progress slot in a terminal state: completed on success, error
// with a human-readable message otherwise. There is no automatic retry;
// reruns are safe because persistence is idempotent and embeddings and tags
// are cached.
func (e *Engine) Run(ctx context.Context, seekerID uuid.UUID) (err error) {
	e.tracker.Start(seekerID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("match run panicked: %v", r)
		}
		if err != nil {
			e.logger.Error("match run failed",
				zap.String("seeker_id", seekerID.String()),
				zap.Error(err))
			e.tracker.Fail(seekerID, err.Error())
		}
	}()

	profile, err := e.store.GetProfile(ctx, seekerID)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("no profile found for seeker %s", seekerID)
	}

	e.tracker.Update(seekerID, types.StageLoadingModel, pctModelLoaded, "preparing profile embedding")
	profileVec, err := e.embedder.EmbedProfile(ctx, profile)
	if err != nil {
		return fmt.Errorf("embedding profile: %w", err)
	}

	existing, err := e.store.GetExistingMatchCount(ctx, seekerID)
	if err != nil {
		return fmt.Errorf("counting existing matches: %w", err)
	}
	if existing == 0 {
		if err := e.runColdStart(ctx, seekerID, profile); err != nil {
			return err
		}
	}

	e.tracker.Update(seekerID, types.StageFetchingJobs, pctFetchDone, "loading candidates")
	candidates, err := e.store.GetUnscoredCandidates(ctx, seekerID, e.locationFilter(profile))
	if err != nil {
		return fmt.Errorf("loading candidates: %w", err)
	}

	chunks := chunker.Partition(candidates, e.cfg.ChunkSpanDays)
	if len(chunks) == 0 {
		e.logger.Info("no new candidates to score", zap.String("seeker_id", seekerID.String()))
		e.tracker.Complete(seekerID, "no new candidates")
		return nil
	}

	e.logger.Info("starting chunked scoring",
		zap.String("seeker_id", seekerID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("chunks", len(chunks)))

	scorer := scoring.NewScorer(profile.Keywords)
	for i, chunk := range chunks {
		pctBefore := pctChunksStart + i*pctChunksBudget/len(chunks)
		pctAfter := pctChunksStart + (i+1)*pctChunksBudget/len(chunks)

		if err := e.processChunk(ctx, seekerID, profile, profileVec, scorer, chunk, pctBefore, pctAfter); err != nil {
			return err
		}
	}

	e.tracker.Complete(seekerID, "match run complete")
	return nil
}

// runColdStart triggers the acquisition burst for a seeker with zero prior
// matches, feeding completed-task counts into the progress slot.
func (e *Engine) runColdStart(ctx context.Context, seekerID uuid.UUID, profile *types.Profile) error {
	e.tracker.Update(seekerID, types.StageInitialFetch, pctFetchStart, "searching job boards")

	_, err := e.coldStart.Run(ctx, profile, func(completed, total int) {
		pct := pctFetchStart + completed*(pctFetchDone-pctFetchStart)/total
		e.tracker.Update(seekerID, types.StageInitialFetch, pct,
			fmt.Sprintf("searched %d of %d sources", completed, total))
	})
	if err != nil {
		return fmt.Errorf("cold start fetch: %w", err)
	}
	return nil
}

// locationFilter restricts candidate loading to the seeker's locations unless
// they are open to remote work, in which case everything is on the table.
func (e *Engine) locationFilter(profile *types.Profile) []string {
	if profile.WorkArrangement == "remote" {
		return nil
	}
	return profile.Locations
}

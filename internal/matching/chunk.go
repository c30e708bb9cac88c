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

// processChunk runs one date window through both scoring tiers: ensure title
// vectors, score everything, persist the semantic matches, then deep-analyze
// the top subset and persist the refined records plus extracted tags.
func (e *Engine) processChunk(ctx context.Context, seekerID uuid.UUID, profile *types.Profile, profileVec []float32, scorer *scoring.Scorer, chunk chunker.Chunk, pctBefore, pctAfter int) error {
	e.tracker.Update(seekerID, types.StageSemanticFiltering, pctBefore,
		fmt.Sprintf("scoring candidates from %s", chunk.Label))

	if err := e.ensureEmbeddings(ctx, chunk.Candidates); err != nil {
		return err
	}

	verdictByID := make(map[uuid.UUID]types.SimilarityVerdict, len(chunk.Candidates))
	candidateByID := make(map[uuid.UUID]types.CandidatePosting, len(chunk.Candidates))
	var included []types.SimilarityVerdict
	for i := range chunk.Candidates {
		c := &chunk.Candidates[i]
		verdict := scorer.Score(profileVec, c.Embedding, c)
		verdictByID[c.ID] = verdict
		candidateByID[c.ID] = *c
		if scoring.Include(verdict) {
			included = append(included, verdict)
		}
	}
	e.tracker.AddCounts(seekerID, len(included), len(chunk.Candidates))

	if len(included) == 0 {
		e.logger.Debug("chunk produced no matches", zap.String("chunk", chunk.Label))
		e.tracker.Update(seekerID, types.StageSemanticFiltering, pctAfter,
			fmt.Sprintf("no matches in %s", chunk.Label))
		return nil
	}

	semantic := make([]types.MatchRecord, 0, len(included))
	for _, v := range included {
		score := v.Score
		semantic = append(semantic, types.MatchRecord{
			SeekerID:        seekerID,
			CandidateID:     v.CandidateID,
			SemanticScore:   &score,
			MatchedKeywords: v.MatchedKeywords,
			Status:          types.MatchStatusSemantic,
		})
	}
	if _, err := e.store.UpsertMatchBatch(ctx, semantic); err != nil {
		return fmt.Errorf("persisting semantic matches for %s: %w", chunk.Label, err)
	}

	// Only the subset at or above the deep threshold earns an analysis call.
	var deepCandidates []types.CandidatePosting
	for _, v := range included {
		if v.Score >= e.cfg.DeepThreshold {
			deepCandidates = append(deepCandidates, candidateByID[v.CandidateID])
		}
	}
	if len(deepCandidates) == 0 {
		e.tracker.Update(seekerID, types.StageSemanticFiltering, pctAfter,
			fmt.Sprintf("scored %d candidates from %s", len(chunk.Candidates), chunk.Label))
		return nil
	}

	e.tracker.Update(seekerID, types.StageDeepAnalysis, pctBefore+(pctAfter-pctBefore)/2,
		fmt.Sprintf("analyzing top %d candidates from %s", len(deepCandidates), chunk.Label))

	result, err := e.analyzer.AnalyzeBatch(ctx, profile, deepCandidates)
	if err != nil {
		// The chunk's semantic matches are already persisted and stay valid;
		// deep scoring is skipped for this chunk only.
		e.logger.Warn("deep analysis failed for chunk, keeping semantic matches",
			zap.String("chunk", chunk.Label),
			zap.Error(err))
		e.tracker.Update(seekerID, types.StageDeepAnalysis, pctAfter,
			fmt.Sprintf("analysis unavailable for %s", chunk.Label))
		return nil
	}
	if result.NotScored > 0 {
		e.logger.Info("some candidates were not analyzed",
			zap.String("chunk", chunk.Label),
			zap.Int("not_analyzed", result.NotScored))
	}

	if err := e.persistDeepResults(ctx, seekerID, verdictByID, candidateByID, result.Verdicts); err != nil {
		return fmt.Errorf("persisting deep results for %s: %w", chunk.Label, err)
	}

	e.tracker.Update(seekerID, types.StageDeepAnalysis, pctAfter,
		fmt.Sprintf("finished %s", chunk.Label))
	return nil
}

// ensureEmbeddings fills missing title vectors via one batched embedding call
// and writes them back so later runs skip the computation. Look-aside cache:
// present vectors are reused untouched.
func (e *Engine) ensureEmbeddings(ctx context.Context, candidates []types.CandidatePosting) error {
	var missing []int
	var titles []string
	for i := range candidates {
		if len(candidates[i].Embedding) == 0 {
			missing = append(missing, i)
			titles = append(titles, candidates[i].Title)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	vectors, err := e.embedder.EmbedTitles(ctx, titles)
	if err != nil {
		return fmt.Errorf("embedding candidate titles: %w", err)
	}

	cached := make([]types.CandidateEmbedding, 0, len(missing))
	for j, idx := range missing {
		candidates[idx].Embedding = vectors[j]
		cached = append(cached, types.CandidateEmbedding{
			CandidateID: candidates[idx].ID,
			Embedding:   vectors[j],
		})
	}

	if !e.cfg.CacheEmbeddings {
		return nil
	}
	if _, err := e.store.UpsertCandidateEmbeddings(ctx, cached); err != nil {
		return fmt.Errorf("caching candidate embeddings: %w", err)
	}
	return nil
}

// persistDeepResults upserts the refined match records and caches extracted
// tags onto candidates that did not have them yet, so tag extraction happens
// at most once per candidate across all seekers.
func (e *Engine) persistDeepResults(ctx context.Context, seekerID uuid.UUID, verdictByID map[uuid.UUID]types.SimilarityVerdict, candidateByID map[uuid.UUID]types.CandidatePosting, verdicts []types.DeepVerdict) error {
	if len(verdicts) == 0 {
		return nil
	}

	records := make([]types.MatchRecord, 0, len(verdicts))
	var tags []types.CandidateTags
	for _, dv := range verdicts {
		sv := verdictByID[dv.CandidateID]
		semantic := sv.Score
		deep := dv.Score
		priority := dv.Priority
		reasoning := dv.Reasoning

		rec := types.MatchRecord{
			SeekerID:        seekerID,
			CandidateID:     dv.CandidateID,
			SemanticScore:   &semantic,
			DeepScore:       &deep,
			Alignments:      dv.Alignments,
			Gaps:            dv.Gaps,
			Competencies:    dv.Competencies,
			Skills:          dv.Skills,
			MatchedKeywords: sv.MatchedKeywords,
			Status:          types.MatchStatusAnalyzed,
		}
		if priority != "" {
			rec.Priority = &priority
		}
		if reasoning != "" {
			rec.Reasoning = &reasoning
		}
		records = append(records, rec)

		candidate := candidateByID[dv.CandidateID]
		if len(candidate.Competencies) == 0 && len(candidate.Skills) == 0 &&
			(len(dv.Competencies) > 0 || len(dv.Skills) > 0) {
			tags = append(tags, types.CandidateTags{
				CandidateID:  dv.CandidateID,
				Competencies: dv.Competencies,
				Skills:       dv.Skills,
			})
		}
	}

	if _, err := e.store.UpsertMatchBatch(ctx, records); err != nil {
		return err
	}
	if len(tags) > 0 {
		if _, err := e.store.UpsertCandidateTags(ctx, tags); err != nil {
			return err
		}
	}
	return nil
}

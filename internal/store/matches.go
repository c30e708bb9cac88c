package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// GetExistingMatchCount returns how many match records exist for a seeker.
// Zero triggers the cold-start acquisition burst.
func (db *DB) GetExistingMatchCount(ctx context.Context, seekerID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM matches WHERE seeker_id = $1`,
		seekerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// UpsertMatchBatch persists match records for (seeker, candidate) pairs. The
// pair is unique; reruns update in place. Deep fields are only written when
// present, and a semantic-only rerun never erases deep fields set by an
// earlier pass. Returns the number of rows written.
func (db *DB) UpsertMatchBatch(ctx context.Context, records []types.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		if r.SemanticScore == nil {
			return 0, fmt.Errorf("match record for candidate %s has no semantic score", r.CandidateID)
		}
		batch.Queue(
			`INSERT INTO matches (seeker_id, candidate_id, semantic_score, deep_score,
			                      priority, reasoning, alignments, gaps, competencies,
			                      skills, matched_keywords, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
			 ON CONFLICT (seeker_id, candidate_id) DO UPDATE SET
			     semantic_score   = EXCLUDED.semantic_score,
			     deep_score       = COALESCE(EXCLUDED.deep_score, matches.deep_score),
			     priority         = COALESCE(EXCLUDED.priority, matches.priority),
			     reasoning        = COALESCE(EXCLUDED.reasoning, matches.reasoning),
			     alignments       = CASE WHEN EXCLUDED.deep_score IS NULL THEN matches.alignments ELSE EXCLUDED.alignments END,
			     gaps             = CASE WHEN EXCLUDED.deep_score IS NULL THEN matches.gaps ELSE EXCLUDED.gaps END,
			     competencies     = CASE WHEN EXCLUDED.deep_score IS NULL THEN matches.competencies ELSE EXCLUDED.competencies END,
			     skills           = CASE WHEN EXCLUDED.deep_score IS NULL THEN matches.skills ELSE EXCLUDED.skills END,
			     matched_keywords = EXCLUDED.matched_keywords,
			     status           = CASE WHEN EXCLUDED.deep_score IS NULL AND matches.deep_score IS NOT NULL
			                             THEN matches.status ELSE EXCLUDED.status END,
			     updated_at       = NOW()`,
			r.SeekerID, r.CandidateID, r.SemanticScore, r.DeepScore,
			r.Priority, r.Reasoning, r.Alignments, r.Gaps, r.Competencies,
			r.Skills, r.MatchedKeywords, r.Status,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("failed to upsert match record: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

// ListMatches returns a seeker's matches ordered by best score first,
// preferring the deep score when present. Used by the status surface.
func (db *DB) ListMatches(ctx context.Context, seekerID uuid.UUID, limit int) ([]types.MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT seeker_id, candidate_id, semantic_score, deep_score, priority,
		        reasoning, alignments, gaps, competencies, skills,
		        matched_keywords, status, created_at, updated_at
		 FROM matches WHERE seeker_id = $1
		 ORDER BY COALESCE(deep_score, semantic_score) DESC
		 LIMIT $2`,
		seekerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var records []types.MatchRecord
	for rows.Next() {
		var r types.MatchRecord
		if err := rows.Scan(&r.SeekerID, &r.CandidateID, &r.SemanticScore, &r.DeepScore,
			&r.Priority, &r.Reasoning, &r.Alignments, &r.Gaps, &r.Competencies,
			&r.Skills, &r.MatchedKeywords, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

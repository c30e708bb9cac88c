package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// GetProfile loads the seeker's structured profile. A missing profile returns
// (nil, nil); the orchestrator treats that as a fatal configuration error.
func (db *DB) GetProfile(ctx context.Context, seekerID uuid.UUID) (*types.Profile, error) {
	p := types.Profile{SeekerID: seekerID}
	var workHistoryJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT summary, skills, work_history, industries, highlights,
		        locations, work_arrangement, keywords
		 FROM seeker_profiles WHERE seeker_id = $1`,
		seekerID,
	).Scan(&p.Summary, &p.Skills, &workHistoryJSON, &p.Industries, &p.Highlights,
		&p.Locations, &p.WorkArrangement, &p.Keywords)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if workHistoryJSON != nil {
		_ = json.Unmarshal(workHistoryJSON, &p.WorkHistory)
	}

	return &p, nil
}

// GetUnscoredCandidates returns candidates that have no match record for the
// seeker yet, newest first. locationFilter, when non-empty, restricts results
// to candidates whose location contains one of the given terms.
func (db *DB) GetUnscoredCandidates(ctx context.Context, seekerID uuid.UUID, locationFilter []string) ([]types.CandidatePosting, error) {
	query := `SELECT c.id, c.external_id, c.source, c.title, c.company, c.location,
	                 c.description, c.discovered_at, c.competencies, c.skills, c.title_embedding
	          FROM candidates c
	          WHERE NOT EXISTS (
	                SELECT 1 FROM matches m
	                WHERE m.candidate_id = c.id AND m.seeker_id = $1)`
	args := []any{seekerID}

	if len(locationFilter) > 0 {
		patterns := make([]string, 0, len(locationFilter))
		for _, loc := range locationFilter {
			patterns = append(patterns, "%"+loc+"%")
		}
		query += ` AND c.location ILIKE ANY($2)`
		args = append(args, patterns)
	}

	query += ` ORDER BY c.discovered_at DESC NULLS LAST`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unscored candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.CandidatePosting
	for rows.Next() {
		var c types.CandidatePosting
		var emb *pgvector.Vector
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Source, &c.Title, &c.Company,
			&c.Location, &c.Description, &c.DiscoveredAt, &c.Competencies, &c.Skills, &emb); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if emb != nil {
			c.Embedding = emb.Slice()
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// InsertDiscovered persists newly acquired candidates. Rows are keyed by
// (source, external_id); a candidate already known from any earlier task or
// run is left untouched, so concurrent discovery of the same posting yields
// exactly one row. Returns the number of new rows.
func (db *DB) InsertDiscovered(ctx context.Context, found []types.RawCandidate) (int, error) {
	if len(found) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rc := range found {
		batch.Queue(
			`INSERT INTO candidates (id, external_id, source, title, company, location, description, discovered_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
			 ON CONFLICT (source, external_id) DO NOTHING`,
			uuid.New(), rc.ExternalID, rc.Source, rc.Title, rc.Company, rc.Location, rc.Description, rc.PostedAt,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range found {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert discovered candidate: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// UpsertCandidateTags caches extracted competency and skill tags back onto
// candidate rows so later runs skip re-extraction. Returns the number of rows
// updated.
func (db *DB) UpsertCandidateTags(ctx context.Context, tags []types.CandidateTags) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, t := range tags {
		batch.Queue(
			`UPDATE candidates SET competencies = $2, skills = $3, updated_at = NOW()
			 WHERE id = $1`,
			t.CandidateID, t.Competencies, t.Skills,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	updated := 0
	for range tags {
		tag, err := results.Exec()
		if err != nil {
			return updated, fmt.Errorf("failed to upsert candidate tags: %w", err)
		}
		updated += int(tag.RowsAffected())
	}
	return updated, nil
}

// UpsertCandidateEmbeddings caches computed title embeddings. Returns the
// number of rows updated.
func (db *DB) UpsertCandidateEmbeddings(ctx context.Context, embeddings []types.CandidateEmbedding) (int, error) {
	if len(embeddings) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range embeddings {
		batch.Queue(
			`UPDATE candidates SET title_embedding = $2, updated_at = NOW()
			 WHERE id = $1`,
			e.CandidateID, pgvector.NewVector(e.Embedding),
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	updated := 0
	for range embeddings {
		tag, err := results.Exec()
		if err != nil {
			return updated, fmt.Errorf("failed to upsert candidate embedding: %w", err)
		}
		updated += int(tag.RowsAffected())
	}
	return updated, nil
}

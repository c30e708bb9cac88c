package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Guard-path tests that run without a database. Query behavior against a live
// pool is covered by integration environments.

func TestConnect_RejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "://not-a-url")
	assert.Error(t, err)
}

func TestUpsertMatchBatch_EmptyInput(t *testing.T) {
	db := &DB{}
	n, err := db.UpsertMatchBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertMatchBatch_RequiresSemanticScore(t *testing.T) {
	db := &DB{}
	candidateID := uuid.New()
	_, err := db.UpsertMatchBatch(context.Background(), []types.MatchRecord{{
		SeekerID:    uuid.New(),
		CandidateID: candidateID,
		Status:      types.MatchStatusSemantic,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), candidateID.String())
}

func TestInsertDiscovered_EmptyInput(t *testing.T) {
	db := &DB{}
	n, err := db.InsertDiscovered(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertCandidateTags_EmptyInput(t *testing.T) {
	db := &DB{}
	n, err := db.UpsertCandidateTags(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertCandidateEmbeddings_EmptyInput(t *testing.T) {
	db := &DB{}
	n, err := db.UpsertCandidateEmbeddings(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

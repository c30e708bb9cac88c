package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Inclusist/job-monitor-sub001/internal/acquisition"
	"github.com/Inclusist/job-monitor-sub001/internal/analysis"
	"github.com/Inclusist/job-monitor-sub001/internal/progress"
	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

type fakeStore struct {
	profile    *types.Profile
	profileErr error
	candidates []types.CandidatePosting
	matchCount int

	gotLocationFilter []string
	matchBatches      [][]types.MatchRecord
	tagBatches        [][]types.CandidateTags
	embeddingBatches  [][]types.CandidateEmbedding
}

func (f *fakeStore) GetProfile(_ context.Context, _ uuid.UUID) (*types.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeStore) GetUnscoredCandidates(_ context.Context, _ uuid.UUID, locationFilter []string) ([]types.CandidatePosting, error) {
	f.gotLocationFilter = locationFilter
	return f.candidates, nil
}

func (f *fakeStore) GetExistingMatchCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.matchCount, nil
}

func (f *fakeStore) UpsertMatchBatch(_ context.Context, records []types.MatchRecord) (int, error) {
	f.matchBatches = append(f.matchBatches, records)
	return len(records), nil
}

func (f *fakeStore) UpsertCandidateTags(_ context.Context, tags []types.CandidateTags) (int, error) {
	f.tagBatches = append(f.tagBatches, tags)
	return len(tags), nil
}

func (f *fakeStore) UpsertCandidateEmbeddings(_ context.Context, embeddings []types.CandidateEmbedding) (int, error) {
	f.embeddingBatches = append(f.embeddingBatches, embeddings)
	return len(embeddings), nil
}

type fakeEmbedder struct {
	profileVec []float32
	profileErr error
	titleVec   []float32
	titleCalls [][]string
}

func (f *fakeEmbedder) EmbedProfile(_ context.Context, _ *types.Profile) ([]float32, error) {
	return f.profileVec, f.profileErr
}

func (f *fakeEmbedder) EmbedTitles(_ context.Context, titles []string) ([][]float32, error) {
	f.titleCalls = append(f.titleCalls, titles)
	out := make([][]float32, len(titles))
	for i := range out {
		out[i] = f.titleVec
	}
	return out, nil
}

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
	calls  [][]types.CandidatePosting
}

func (f *fakeAnalyzer) AnalyzeBatch(_ context.Context, _ *types.Profile, candidates []types.CandidatePosting) (*analysis.Result, error) {
	f.calls = append(f.calls, candidates)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &analysis.Result{}, nil
}

type fakeColdStart struct {
	calls int
	err   error
}

func (f *fakeColdStart) Run(_ context.Context, _ *types.Profile, onProgress acquisition.ProgressFunc) (int, error) {
	f.calls++
	if onProgress != nil {
		onProgress(1, 2)
		onProgress(2, 2)
	}
	return 4, f.err
}

func testProfile() *types.Profile {
	return &types.Profile{
		SeekerID:  uuid.New(),
		Summary:   "Backend engineer",
		Keywords:  nil, // no boosts, scores come from cosine alone
		Locations: []string{"Berlin"},
	}
}

// Embeddings chosen against profile vector {1, 0}: {1, 0} scores 100,
// {3, 4} scores 60 and {0, 1} scores 0.
func embeddedCandidate(title string, vec []float32, daysAgo int) types.CandidatePosting {
	ts := time.Now().AddDate(0, 0, -daysAgo)
	return types.CandidatePosting{
		ID:           uuid.New(),
		ExternalID:   uuid.NewString(),
		Source:       "jsearch",
		Title:        title,
		DiscoveredAt: &ts,
		Embedding:    vec,
	}
}

func newTestEngine(store *fakeStore, embedder *fakeEmbedder, analyzer *fakeAnalyzer, cold *fakeColdStart, cfg Config) *Engine {
	if cfg.DeepThreshold == 0 {
		cfg.DeepThreshold = 70
	}
	return NewEngine(store, embedder, analyzer, cold, progress.NewTracker(), zap.NewNop(), cfg)
}

func TestRun_ColdStartOnlyWhenNoExistingMatches(t *testing.T) {
	profile := testProfile()

	for _, tc := range []struct {
		name      string
		existing  int
		wantCalls int
	}{
		{"first run triggers burst", 0, 1},
		{"established seeker skips burst", 12, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{profile: profile, matchCount: tc.existing}
			cold := &fakeColdStart{}
			e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, &fakeAnalyzer{}, cold, Config{})

			require.NoError(t, e.Run(context.Background(), profile.SeekerID))
			assert.Equal(t, tc.wantCalls, cold.calls)
		})
	}
}

func TestRun_NoCandidatesCompletesImmediately(t *testing.T) {
	profile := testProfile()
	store := &fakeStore{profile: profile, matchCount: 1}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, &fakeAnalyzer{}, &fakeColdStart{}, Config{})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	run, ok := e.Tracker().Get(profile.SeekerID)
	require.True(t, ok)
	assert.Equal(t, types.RunStatusCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	assert.Empty(t, store.matchBatches)
}

func TestRun_SemanticOnlyChunkSkipsAnalyzer(t *testing.T) {
	// Two candidates clear inclusion but stay under the deep threshold, one
	// falls below inclusion. Only a semantic batch is persisted and the
	// analyzer is never invoked.
	profile := testProfile()
	store := &fakeStore{
		profile:    profile,
		matchCount: 1,
		candidates: []types.CandidatePosting{
			embeddedCandidate("Engineer A", []float32{3, 4}, 1),
			embeddedCandidate("Engineer B", []float32{3, 4}, 2),
			embeddedCandidate("Florist", []float32{0, 1}, 3),
		},
	}
	analyzer := &fakeAnalyzer{}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, analyzer, &fakeColdStart{}, Config{})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	assert.Empty(t, analyzer.calls)
	require.Len(t, store.matchBatches, 1)
	batch := store.matchBatches[0]
	require.Len(t, batch, 2)
	for _, rec := range batch {
		assert.Equal(t, types.MatchStatusSemantic, rec.Status)
		require.NotNil(t, rec.SemanticScore)
		assert.Equal(t, 60, *rec.SemanticScore)
		assert.Nil(t, rec.DeepScore)
	}

	run, _ := e.Tracker().Get(profile.SeekerID)
	assert.Equal(t, 2, run.MatchesFound)
	assert.Equal(t, 3, run.JobsAnalyzed)
}

func TestRun_DeepFlowPersistsAnalyzedRecords(t *testing.T) {
	profile := testProfile()
	top := embeddedCandidate("Engineer", []float32{1, 0}, 1)
	mid := embeddedCandidate("Engineer", []float32{3, 4}, 2)
	store := &fakeStore{profile: profile, matchCount: 1, candidates: []types.CandidatePosting{top, mid}}

	analyzer := &fakeAnalyzer{result: &analysis.Result{Verdicts: []types.DeepVerdict{{
		CandidateID:  top.ID,
		Score:        88,
		Priority:     types.PriorityHigh,
		Reasoning:    "strong overlap",
		Alignments:   []string{"go"},
		Competencies: []string{"backend"},
		Skills:       []string{"go"},
	}}}}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, analyzer, &fakeColdStart{}, Config{})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	// Only the candidate at or above the threshold reaches the analyzer.
	require.Len(t, analyzer.calls, 1)
	require.Len(t, analyzer.calls[0], 1)
	assert.Equal(t, top.ID, analyzer.calls[0][0].ID)

	// Semantic batch first, then the refined batch.
	require.Len(t, store.matchBatches, 2)
	deep := store.matchBatches[1]
	require.Len(t, deep, 1)
	assert.Equal(t, types.MatchStatusAnalyzed, deep[0].Status)
	require.NotNil(t, deep[0].SemanticScore)
	assert.Equal(t, 100, *deep[0].SemanticScore)
	require.NotNil(t, deep[0].DeepScore)
	assert.Equal(t, 88, *deep[0].DeepScore)
	require.NotNil(t, deep[0].Priority)
	assert.Equal(t, types.PriorityHigh, *deep[0].Priority)

	// The verdict carried tags for a candidate that had none, so they are
	// cached on the candidate.
	require.Len(t, store.tagBatches, 1)
	require.Len(t, store.tagBatches[0], 1)
	assert.Equal(t, top.ID, store.tagBatches[0][0].CandidateID)
}

func TestRun_TagsNotRewrittenForTaggedCandidates(t *testing.T) {
	profile := testProfile()
	top := embeddedCandidate("Engineer", []float32{1, 0}, 1)
	top.Competencies = []string{"already extracted"}
	store := &fakeStore{profile: profile, matchCount: 1, candidates: []types.CandidatePosting{top}}

	analyzer := &fakeAnalyzer{result: &analysis.Result{Verdicts: []types.DeepVerdict{{
		CandidateID:  top.ID,
		Score:        90,
		Competencies: []string{"fresh"},
	}}}}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, analyzer, &fakeColdStart{}, Config{})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))
	assert.Empty(t, store.tagBatches)
}

func TestRun_AnalyzerFailureKeepsSemanticMatches(t *testing.T) {
	profile := testProfile()
	store := &fakeStore{
		profile:    profile,
		matchCount: 1,
		candidates: []types.CandidatePosting{embeddedCandidate("Engineer", []float32{1, 0}, 1)},
	}
	analyzer := &fakeAnalyzer{err: errors.New("model overloaded")}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, analyzer, &fakeColdStart{}, Config{})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	// The semantic batch survives and the run still completes.
	require.Len(t, store.matchBatches, 1)
	assert.Equal(t, types.MatchStatusSemantic, store.matchBatches[0][0].Status)

	run, _ := e.Tracker().Get(profile.SeekerID)
	assert.Equal(t, types.RunStatusCompleted, run.Status)
}

func TestRun_MissingProfileFailsRun(t *testing.T) {
	seekerID := uuid.New()
	e := newTestEngine(&fakeStore{}, &fakeEmbedder{}, &fakeAnalyzer{}, &fakeColdStart{}, Config{})

	err := e.Run(context.Background(), seekerID)
	require.Error(t, err)

	run, ok := e.Tracker().Get(seekerID)
	require.True(t, ok)
	assert.Equal(t, types.RunStatusError, run.Status)
	assert.Zero(t, run.Progress)
	assert.NotEmpty(t, run.Message)
}

func TestRun_ColdStartFailureFailsRun(t *testing.T) {
	profile := testProfile()
	store := &fakeStore{profile: profile, matchCount: 0}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, &fakeAnalyzer{}, &fakeColdStart{err: errors.New("database down")}, Config{})

	err := e.Run(context.Background(), profile.SeekerID)
	require.Error(t, err)

	run, _ := e.Tracker().Get(profile.SeekerID)
	assert.Equal(t, types.RunStatusError, run.Status)
}

func TestRun_EmbedsAndCachesMissingTitleVectors(t *testing.T) {
	profile := testProfile()
	missing := embeddedCandidate("Engineer", nil, 1)
	present := embeddedCandidate("Engineer", []float32{3, 4}, 2)
	store := &fakeStore{profile: profile, matchCount: 1, candidates: []types.CandidatePosting{missing, present}}
	embedder := &fakeEmbedder{profileVec: []float32{1, 0}, titleVec: []float32{3, 4}}
	e := newTestEngine(store, embedder, &fakeAnalyzer{}, &fakeColdStart{}, Config{CacheEmbeddings: true})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	// Only the vectorless candidate is embedded, and its vector is written
	// back for later runs.
	require.Len(t, embedder.titleCalls, 1)
	assert.Equal(t, []string{"Engineer"}, embedder.titleCalls[0])
	require.Len(t, store.embeddingBatches, 1)
	require.Len(t, store.embeddingBatches[0], 1)
	assert.Equal(t, missing.ID, store.embeddingBatches[0][0].CandidateID)

	// Both candidates scored 60 once the vector was filled.
	require.Len(t, store.matchBatches, 1)
	assert.Len(t, store.matchBatches[0], 2)
}

func TestRun_CacheDisabledSkipsWriteBack(t *testing.T) {
	profile := testProfile()
	store := &fakeStore{
		profile:    profile,
		matchCount: 1,
		candidates: []types.CandidatePosting{embeddedCandidate("Engineer", nil, 1)},
	}
	embedder := &fakeEmbedder{profileVec: []float32{1, 0}, titleVec: []float32{3, 4}}
	e := newTestEngine(store, embedder, &fakeAnalyzer{}, &fakeColdStart{}, Config{CacheEmbeddings: false})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))
	require.Len(t, embedder.titleCalls, 1)
	assert.Empty(t, store.embeddingBatches)
}

func TestRun_ChunksProcessedNewestFirst(t *testing.T) {
	profile := testProfile()
	newer := embeddedCandidate("Engineer", []float32{1, 0}, 1)
	older := embeddedCandidate("Engineer", []float32{1, 0}, 30)
	store := &fakeStore{profile: profile, matchCount: 1, candidates: []types.CandidatePosting{older, newer}}
	analyzer := &fakeAnalyzer{}
	e := newTestEngine(store, &fakeEmbedder{profileVec: []float32{1, 0}}, analyzer, &fakeColdStart{}, Config{ChunkSpanDays: 7})

	require.NoError(t, e.Run(context.Background(), profile.SeekerID))

	require.Len(t, analyzer.calls, 2)
	assert.Equal(t, newer.ID, analyzer.calls[0][0].ID)
	assert.Equal(t, older.ID, analyzer.calls[1][0].ID)
}

func TestLocationFilter(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeEmbedder{}, &fakeAnalyzer{}, &fakeColdStart{}, Config{})

	onsite := &types.Profile{Locations: []string{"Berlin", "Munich"}, WorkArrangement: "hybrid"}
	assert.Equal(t, []string{"Berlin", "Munich"}, e.locationFilter(onsite))

	remote := &types.Profile{Locations: []string{"Berlin"}, WorkArrangement: "remote"}
	assert.Nil(t, e.locationFilter(remote))
}

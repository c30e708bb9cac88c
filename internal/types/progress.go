package types

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the top-level state of a match run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusError     RunStatus = "error"
)

// Stage identifies where in the pipeline a running match currently is.
// Transitions are strictly forward; 'error' is reachable from any stage.
type Stage string

const (
	StageInitializing      Stage = "initializing"
	StageLoadingModel      Stage = "loading_model"
	StageInitialFetch      Stage = "initial_fetch"
	StageFetchingJobs      Stage = "fetching_jobs"
	StageSemanticFiltering Stage = "semantic_filtering"
	StageDeepAnalysis      Stage = "deep_analysis"
	StageDone              Stage = "done"
)

// RunProgress is the live state exposed to an external polling consumer.
// One slot exists per seeker; a later run for the same seeker overwrites it.
type RunProgress struct {
	SeekerID     uuid.UUID `json:"seeker_id"`
	Status       RunStatus `json:"status"`
	Stage        Stage     `json:"stage"`
	Progress     int       `json:"progress"` // 0-100
	Message      string    `json:"message,omitempty"`
	MatchesFound int       `json:"matches_found"`
	JobsAnalyzed int       `json:"jobs_analyzed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Package progress holds the live per-seeker run state read by polling
// consumers.
package progress

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Tracker keeps one RunProgress slot per seeker. Writes go through the
// tracker's lock so concurrent readers always see a consistent snapshot; a
// later run for the same seeker overwrites the earlier run's slot. No history
// is retained.
type Tracker struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*types.RunProgress
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{runs: make(map[uuid.UUID]*types.RunProgress)}
}

// Start resets the seeker's slot to a fresh running state.
func (t *Tracker) Start(seekerID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[seekerID] = &types.RunProgress{
		SeekerID:  seekerID,
		Status:    types.RunStatusRunning,
		Stage:     types.StageInitializing,
		Progress:  0,
		UpdatedAt: time.Now(),
	}
}

// Update advances the seeker's stage, percent and message. Percent is clamped
// to 0-100 and never moves backward within a run.
func (t *Tracker) Update(seekerID uuid.UUID, stage types.Stage, percent int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[seekerID]
	if !ok {
		return
	}
	if percent > 100 {
		percent = 100
	}
	if percent > run.Progress {
		run.Progress = percent
	}
	run.Stage = stage
	run.Message = message
	run.UpdatedAt = time.Now()
}

// AddCounts increments the running counters exposed to pollers.
func (t *Tracker) AddCounts(seekerID uuid.UUID, matchesFound, jobsAnalyzed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[seekerID]
	if !ok {
		return
	}
	run.MatchesFound += matchesFound
	run.JobsAnalyzed += jobsAnalyzed
	run.UpdatedAt = time.Now()
}

// Complete marks the run terminal with full progress.
func (t *Tracker) Complete(seekerID uuid.UUID, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[seekerID]
	if !ok {
		return
	}
	run.Status = types.RunStatusCompleted
	run.Stage = types.StageDone
	run.Progress = 100
	run.Message = message
	run.UpdatedAt = time.Now()
}

// Fail marks the run terminal with the failure message. Progress resets to 0
// so pollers can distinguish a failed run from a partial one.
func (t *Tracker) Fail(seekerID uuid.UUID, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[seekerID]
	if !ok {
		return
	}
	run.Status = types.RunStatusError
	run.Progress = 0
	run.Message = message
	run.UpdatedAt = time.Now()
}

// Get returns a copy of the seeker's slot.
func (t *Tracker) Get(seekerID uuid.UUID) (types.RunProgress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	run, ok := t.runs[seekerID]
	if !ok {
		return types.RunProgress{}, false
	}
	return *run, true
}

// Package types defines the shared domain types for the match engine.
package types

import "github.com/google/uuid"

// Profile is an immutable snapshot of a seeker used for one match run.
// It is built once from the persisted structured profile and never mutated
// while the run is in flight.
type Profile struct {
	SeekerID        uuid.UUID   `json:"seeker_id"`
	Summary         string      `json:"summary"`
	Skills          []string    `json:"skills,omitempty"`
	WorkHistory     []WorkEntry `json:"work_history,omitempty"`
	Industries      []string    `json:"industries,omitempty"`
	Highlights      []string    `json:"highlights,omitempty"`
	Locations       []string    `json:"locations,omitempty"`
	WorkArrangement string      `json:"work_arrangement,omitempty"` // 'remote', 'hybrid', 'onsite'
	Keywords        []string    `json:"keywords,omitempty"`
}

// WorkEntry is one position in a seeker's work history.
type WorkEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
}

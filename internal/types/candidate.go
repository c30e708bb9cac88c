package types

import (
	"time"

	"github.com/google/uuid"
)

// CandidatePosting is one item in the pool being ranked against profiles.
// Storage owns it; the engine reads it and writes back extracted tags and
// cached title embeddings as a side effect of a run.
type CandidatePosting struct {
	ID           uuid.UUID  `json:"id"`
	ExternalID   string     `json:"external_id,omitempty"` // provider-scoped id, used for dedupe on insert
	Source       string     `json:"source,omitempty"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location,omitempty"`
	Description  string     `json:"description,omitempty"`
	DiscoveredAt *time.Time `json:"discovered_at,omitempty"`

	// Populated by prior deep-analysis passes; computed at most once per
	// candidate across all seekers.
	Competencies []string `json:"competencies,omitempty"`
	Skills       []string `json:"skills,omitempty"`

	// Cached title embedding, nil when never computed.
	Embedding []float32 `json:"-"`
}

// RawCandidate is a provider search result before it is persisted.
// Adapters normalize provider shapes into this.
type RawCandidate struct {
	ExternalID  string     `json:"external_id"`
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
}

// CandidateTags carries extracted tags to be cached back onto a posting.
type CandidateTags struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	Competencies []string  `json:"competencies,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
}

// CandidateEmbedding carries a computed title embedding to be cached back
// onto a posting.
type CandidateEmbedding struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Embedding   []float32 `json:"-"`
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// Match status constants.
const (
	MatchStatusSemantic = "semantic" // scored by the similarity pass only
	MatchStatusAnalyzed = "analyzed" // refined by deep analysis
)

// Priority labels assigned by deep analysis.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// SimilarityVerdict is the ephemeral output of the similarity scorer for one
// candidate. It is never persisted directly; the orchestrator folds it into a
// MatchRecord.
type SimilarityVerdict struct {
	CandidateID     uuid.UUID `json:"candidate_id"`
	Score           int       `json:"score"` // 0-100
	MatchedKeywords []string  `json:"matched_keywords,omitempty"`
}

// DeepVerdict is the structured result of contextual analysis for one
// candidate.
type DeepVerdict struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	Score        int       `json:"score"` // 0-100
	Priority     string    `json:"priority,omitempty"`
	Reasoning    string    `json:"reasoning,omitempty"`
	Alignments   []string  `json:"alignments,omitempty"`
	Gaps         []string  `json:"gaps,omitempty"`
	Competencies []string  `json:"competencies,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
}

// MatchRecord is the persisted outcome of scoring one (seeker, candidate)
// pair. The pair is unique in storage; re-runs refine the same record via
// upsert, never duplicate it. SemanticScore is always set before a record is
// written; deep fields are set only when the candidate crossed the
// deep-analysis threshold.
type MatchRecord struct {
	SeekerID    uuid.UUID `json:"seeker_id"`
	CandidateID uuid.UUID `json:"candidate_id"`

	SemanticScore *int `json:"semantic_score,omitempty"` // 0-100
	DeepScore     *int `json:"deep_score,omitempty"`     // 0-100

	Priority        *string  `json:"priority,omitempty"`
	Reasoning       *string  `json:"reasoning,omitempty"`
	Alignments      []string `json:"alignments,omitempty"`
	Gaps            []string `json:"gaps,omitempty"`
	Competencies    []string `json:"competencies,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

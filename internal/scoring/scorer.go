// Package scoring computes the cheap first-pass match score: cosine similarity
// between the seeker's profile vector and a candidate's title vector, adjusted
// by deterministic keyword and title heuristics into a 0-100 integer.
package scoring

import (
	"math"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// InclusionThreshold is the minimum score for a candidate to enter a chunk's
// semantic result set.
const InclusionThreshold = 30

// Scorer scores candidates against one seeker's configured keyword list.
type Scorer struct {
	keywords []string
}

// NewScorer creates a scorer for the given keyword list.
func NewScorer(keywords []string) *Scorer {
	return &Scorer{keywords: keywords}
}

// Score produces the similarity verdict for one candidate. profileVec is the
// seeker's profile embedding; titleVec is the candidate's title embedding.
// Similarity is computed against the title only, which trades recall for
// throughput on large pools.
func (s *Scorer) Score(profileVec, titleVec []float32, candidate *types.CandidatePosting) types.SimilarityVerdict {
	base := CosineSimilarity(profileVec, titleVec)
	if base < 0 {
		base = 0
	}

	boost, matched := keywordBoost(candidate, s.keywords)
	total := base + boost
	if hasLeadershipTitle(candidate.Title) {
		total += leadershipBoost
	}
	if total > 1.0 {
		total = 1.0
	}

	return types.SimilarityVerdict{
		CandidateID:     candidate.ID,
		Score:           int(total * 100), // truncated, not rounded
		MatchedKeywords: matched,
	}
}

// Include reports whether a verdict clears the semantic inclusion threshold.
func Include(v types.SimilarityVerdict) bool {
	return v.Score >= InclusionThreshold
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

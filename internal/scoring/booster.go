package scoring

import (
	"strings"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Boost weights. Keyword boosts are summed per keyword and capped at
// maxKeywordBoost; the leadership boost is a single flat addition applied
// outside that cap.
const (
	titleKeywordBoost = 0.15
	textKeywordBoost  = 0.05
	maxKeywordBoost   = 0.30
	leadershipBoost   = 0.10
)

// leadershipTerms mark senior roles in a candidate title. Any number of hits
// yields exactly one leadershipBoost.
var leadershipTerms = []string{
	"lead",
	"principal",
	"head of",
	"director",
	"vp",
	"chief",
}

// keywordBoost computes the capped cumulative keyword boost for a candidate
// and returns the keywords that matched. A keyword found in the title counts
// titleKeywordBoost; one found only in the rest of the candidate text counts
// textKeywordBoost.
func keywordBoost(candidate *types.CandidatePosting, keywords []string) (float64, []string) {
	title := strings.ToLower(candidate.Title)
	text := strings.ToLower(candidate.Company + " " + candidate.Location + " " + candidate.Description)

	var boost float64
	var matched []string
	for _, kw := range keywords {
		kwLower := strings.ToLower(strings.TrimSpace(kw))
		if kwLower == "" {
			continue
		}
		switch {
		case strings.Contains(title, kwLower):
			boost += titleKeywordBoost
			matched = append(matched, kw)
		case strings.Contains(text, kwLower):
			boost += textKeywordBoost
			matched = append(matched, kw)
		}
	}

	if boost > maxKeywordBoost {
		boost = maxKeywordBoost
	}
	return boost, matched
}

func hasLeadershipTitle(title string) bool {
	titleLower := strings.ToLower(title)
	for _, term := range leadershipTerms {
		if strings.Contains(titleLower, term) {
			return true
		}
	}
	return false
}

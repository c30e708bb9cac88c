// Package analysis sends the top-scoring subset of a chunk to the external
// contextual-analysis capability and turns its verdicts into structured
// results.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Inclusist/job-monitor-sub001/internal/llm"
	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Analyzer performs the expensive second-pass scoring.
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer on the given client.
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger}
}

// Result carries the usable verdicts of one batch plus the count of entries
// dropped as malformed. Dropped entries are not errors; their candidates just
// stay semantic-only.
type Result struct {
	Verdicts  []types.DeepVerdict
	NotScored int
}

type batchResponse struct {
	Results []struct {
		CandidateID  string   `json:"candidate_id"`
		Score        *float64 `json:"score"`
		Priority     string   `json:"priority"`
		Reasoning    string   `json:"reasoning"`
		Alignments   []string `json:"alignments"`
		Gaps         []string `json:"gaps"`
		Competencies []string `json:"competencies"`
		Skills       []string `json:"skills"`
	} `json:"results"`
}

// AnalyzeBatch sends the selected candidates plus profile context in one call
// and returns per-candidate verdicts. An error here means the whole batch
// failed; the caller keeps the chunk's semantic matches and moves on.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, profile *types.Profile, candidates []types.CandidatePosting) (*Result, error) {
	if len(candidates) == 0 {
		return &Result{}, nil
	}

	prompt := buildBatchPrompt(profile, candidates)

	raw, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("contextual analysis call failed: %w", err)
	}

	if err := validateBatchResponse(raw); err != nil {
		return nil, err
	}

	var parsed batchResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	known := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	res := &Result{}
	for _, entry := range parsed.Results {
		id, err := uuid.Parse(entry.CandidateID)
		if err != nil || !known[id] {
			res.NotScored++
			a.logger.Debug("dropping analysis entry with unknown candidate id",
				zap.String("candidate_id", entry.CandidateID))
			continue
		}
		if entry.Score == nil {
			res.NotScored++
			a.logger.Debug("dropping analysis entry without score",
				zap.String("candidate_id", entry.CandidateID))
			continue
		}

		score := int(*entry.Score)
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		res.Verdicts = append(res.Verdicts, types.DeepVerdict{
			CandidateID:  id,
			Score:        score,
			Priority:     normalizePriority(entry.Priority),
			Reasoning:    entry.Reasoning,
			Alignments:   entry.Alignments,
			Gaps:         entry.Gaps,
			Competencies: entry.Competencies,
			Skills:       entry.Skills,
		})
	}

	// Entries the model omitted entirely also count as not analyzed.
	res.NotScored += len(candidates) - len(parsed.Results)
	if res.NotScored < 0 {
		res.NotScored = 0
	}

	return res, nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case types.PriorityHigh:
		return types.PriorityHigh
	case types.PriorityMedium:
		return types.PriorityMedium
	case types.PriorityLow:
		return types.PriorityLow
	default:
		return ""
	}
}

// buildBatchPrompt lays out the seeker context once, then each candidate with
// its id and any previously extracted tags, and pins the response contract.
func buildBatchPrompt(profile *types.Profile, candidates []types.CandidatePosting) string {
	var sb strings.Builder

	sb.WriteString("You are evaluating job postings for one job seeker.\n\n")
	sb.WriteString("## Seeker\n")
	if profile.Summary != "" {
		sb.WriteString(profile.Summary)
		sb.WriteString("\n")
	}
	if len(profile.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(profile.Skills, ", ") + "\n")
	}
	for _, w := range profile.WorkHistory {
		sb.WriteString(fmt.Sprintf("Experience: %s at %s\n", w.Title, w.Company))
	}
	if profile.WorkArrangement != "" {
		sb.WriteString("Preferred arrangement: " + profile.WorkArrangement + "\n")
	}

	sb.WriteString("\n## Postings\n")
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("\n### candidate_id: %s\n", c.ID))
		sb.WriteString(fmt.Sprintf("Title: %s\nCompany: %s\nLocation: %s\n", c.Title, c.Company, c.Location))
		if len(c.Competencies) > 0 {
			sb.WriteString("Known competencies: " + strings.Join(c.Competencies, ", ") + "\n")
		}
		if len(c.Skills) > 0 {
			sb.WriteString("Known skills: " + strings.Join(c.Skills, ", ") + "\n")
		}
		if c.Description != "" {
			sb.WriteString("Description: " + truncate(c.Description, 2000) + "\n")
		}
	}

	sb.WriteString(`
## Task
For every posting, assess the fit against the seeker. Return ONLY valid JSON:
{
  "results": [
    {
      "candidate_id": "<id from above>",
      "score": <0-100 fit score>,
      "priority": "high" | "medium" | "low",
      "reasoning": "<2-3 sentences>",
      "alignments": ["<where the seeker matches>"],
      "gaps": ["<where the seeker falls short>"],
      "competencies": ["<competencies the posting asks for>"],
      "skills": ["<concrete skills the posting asks for>"]
    }
  ]
}
Include every candidate_id exactly once. No markdown, no commentary.`)

	return sb.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

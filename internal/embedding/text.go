package embedding

import (
	"strings"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// BuildProfileText concatenates summary, skills, work history snippets,
// industries and highlights into the single blob that gets embedded.
// The section ordering is stable so the same profile always produces the
// same text.
func BuildProfileText(p *types.Profile) string {
	var sections []string

	if s := strings.TrimSpace(p.Summary); s != "" {
		sections = append(sections, s)
	}
	if len(p.Skills) > 0 {
		sections = append(sections, "Skills: "+strings.Join(p.Skills, ", "))
	}
	for _, w := range p.WorkHistory {
		var sb strings.Builder
		sb.WriteString(w.Title)
		if w.Company != "" {
			sb.WriteString(" at ")
			sb.WriteString(w.Company)
		}
		if desc := strings.TrimSpace(w.Description); desc != "" {
			sb.WriteString(": ")
			sb.WriteString(snippet(desc, 300))
		}
		sections = append(sections, sb.String())
	}
	if len(p.Industries) > 0 {
		sections = append(sections, "Industries: "+strings.Join(p.Industries, ", "))
	}
	if len(p.Highlights) > 0 {
		sections = append(sections, "Highlights: "+strings.Join(p.Highlights, ". "))
	}

	return strings.Join(sections, "\n")
}

// snippet truncates long free text on a rune boundary.
func snippet(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

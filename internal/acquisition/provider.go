// Package acquisition discovers new candidate postings from external
// providers and runs the cold-start burst for seekers with no prior matches.
package acquisition

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Query is one provider search: a small keyword batch at one location.
type Query struct {
	Keywords []string
	Location string
	Page     int
}

// Provider is one acquisition source. Adapters own shape normalization into
// RawCandidate; a provider failure is soft and isolated to its task.
type Provider interface {
	// Name identifies the provider in logs and candidate Source fields.
	Name() string
	// Supports reports whether the provider serves the given location.
	Supports(location string) bool
	// Search runs one query and returns normalized candidates.
	Search(ctx context.Context, q Query) ([]types.RawCandidate, error)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// htmlToText strips markup from a provider-supplied description. Providers
// routinely return HTML fragments; stored descriptions are plain text.
func htmlToText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style, noscript").Remove()

	text := doc.Text()
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// providerError wraps a provider response failure with enough context for the
// cold-start log line.
func providerError(provider string, q Query, err error) error {
	return fmt.Errorf("provider %s search (keywords=%s location=%q): %w",
		provider, strings.Join(q.Keywords, ","), q.Location, err)
}

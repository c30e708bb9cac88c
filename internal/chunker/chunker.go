// Package chunker partitions an unbounded candidate set into date-bounded,
// newest-first batches so the orchestrator can stream partial results instead
// of blocking until everything is scored.
package chunker

import (
	"fmt"
	"time"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// UndatedLabel names the trailing bucket for candidates without a discovery
// timestamp.
const UndatedLabel = "undated"

// Chunk is one date-bounded batch of candidates processed as a unit.
type Chunk struct {
	Label      string
	Candidates []types.CandidatePosting
}

// Partition buckets candidates into half-open windows of spanDays, anchored at
// the most recent discovery timestamp plus one day and walking backward until
// the oldest timestamp is covered. Buckets are emitted newest-first; candidates
// without a timestamp land in one trailing undated bucket. The output is a
// strict partition of the input: every candidate appears in exactly one bucket.
func Partition(candidates []types.CandidatePosting, spanDays int) []Chunk {
	if spanDays <= 0 {
		spanDays = 1
	}

	var dated, undated []types.CandidatePosting
	for _, c := range candidates {
		if c.DiscoveredAt == nil {
			undated = append(undated, c)
		} else {
			dated = append(dated, c)
		}
	}

	var chunks []Chunk

	if len(dated) > 0 {
		newest, oldest := *dated[0].DiscoveredAt, *dated[0].DiscoveredAt
		for _, c := range dated[1:] {
			if c.DiscoveredAt.After(newest) {
				newest = *c.DiscoveredAt
			}
			if c.DiscoveredAt.Before(oldest) {
				oldest = *c.DiscoveredAt
			}
		}

		upper := newest.AddDate(0, 0, 1)
		for upper.After(oldest) {
			lower := upper.AddDate(0, 0, -spanDays)

			var bucket []types.CandidatePosting
			for _, c := range dated {
				ts := *c.DiscoveredAt
				if !ts.Before(lower) && ts.Before(upper) {
					bucket = append(bucket, c)
				}
			}
			if len(bucket) > 0 {
				chunks = append(chunks, Chunk{
					Label:      windowLabel(lower, upper),
					Candidates: bucket,
				})
			}

			upper = lower
		}
	}

	if len(undated) > 0 {
		chunks = append(chunks, Chunk{Label: UndatedLabel, Candidates: undated})
	}

	return chunks
}

func windowLabel(lower, upper time.Time) string {
	// The window is half-open, so the last day it covers is upper minus one day.
	return fmt.Sprintf("%s to %s",
		lower.Format("2006-01-02"),
		upper.AddDate(0, 0, -1).Format("2006-01-02"))
}

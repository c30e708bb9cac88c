// Package embedding turns seeker profiles and candidate titles into vectors
// via the external embedding capability.
package embedding

import (
	"context"
	"fmt"

	"github.com/Inclusist/job-monitor-sub001/internal/llm"
	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Embedder wraps the embedding capability for the two shapes the engine
// needs: one profile vector per run, and batched title vectors on cache miss.
type Embedder struct {
	client llm.Client
}

// NewEmbedder creates an Embedder on the given client.
func NewEmbedder(client llm.Client) *Embedder {
	return &Embedder{client: client}
}

// EmbedProfile flattens the profile into one text blob and embeds it. This is
// called once per run; an error here is fatal to the run since no score can be
// computed without the profile vector.
func (e *Embedder) EmbedProfile(ctx context.Context, profile *types.Profile) ([]float32, error) {
	text := BuildProfileText(profile)
	if text == "" {
		return nil, fmt.Errorf("profile has no embeddable content")
	}

	vec, err := e.client.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed profile: %w", err)
	}
	return vec, nil
}

// EmbedTitles embeds candidate titles in one batched request, index-aligned
// with the input. Used by the orchestrator on embedding-cache misses.
func (e *Embedder) EmbedTitles(ctx context.Context, titles []string) ([][]float32, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	vectors, err := e.client.EmbedBatch(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to embed titles: %w", err)
	}
	return vectors, nil
}

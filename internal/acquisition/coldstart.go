package acquisition

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

// Fetcher defaults.
const (
	DefaultWorkers          = 4
	DefaultKeywordBatchSize = 2
	DefaultPages            = 2
)

// DiscoveryStore is the slice of persistence the fetcher needs. Inserts are
// upserts keyed by (source, external id), so tasks can persist in completion
// order without coordination.
type DiscoveryStore interface {
	InsertDiscovered(ctx context.Context, found []types.RawCandidate) (int, error)
}

// ProgressFunc receives completed and total task counts as tasks finish.
type ProgressFunc func(completed, total int)

// FetcherConfig tunes the cold-start burst.
type FetcherConfig struct {
	Workers          int // concurrent tasks
	KeywordBatchSize int // keywords per task
	Pages            int // result pages per task
}

// Fetcher runs the first-time acquisition burst for a seeker with no prior
// matches. It crosses keyword batches with seeker locations across all
// supporting providers and runs the resulting tasks on a bounded pool.
type Fetcher struct {
	providers []Provider
	store     DiscoveryStore
	logger    *zap.Logger
	cfg       FetcherConfig
}

// NewFetcher creates a Fetcher. Zero config fields fall back to defaults.
func NewFetcher(providers []Provider, store DiscoveryStore, logger *zap.Logger, cfg FetcherConfig) *Fetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.KeywordBatchSize <= 0 {
		cfg.KeywordBatchSize = DefaultKeywordBatchSize
	}
	if cfg.Pages <= 0 {
		cfg.Pages = DefaultPages
	}
	return &Fetcher{
		providers: providers,
		store:     store,
		logger:    logger,
		cfg:       cfg,
	}
}

type task struct {
	provider Provider
	keywords []string
	location string
}

type taskResult struct {
	provider   string
	location   string
	inserted   int
	searchErr  error // soft: logged and counted
	persistErr error // fatal: storage is down, the run cannot proceed
}

// Run executes the burst and returns the number of newly persisted
// candidates. Each task's finds are inserted as soon as the task completes;
// a failed search is logged and skipped without affecting sibling tasks.
// Only a persistence failure aborts the burst.
func (f *Fetcher) Run(ctx context.Context, profile *types.Profile, onProgress ProgressFunc) (int, error) {
	tasks := f.buildTasks(profile)
	if len(tasks) == 0 {
		f.logger.Info("cold start skipped, no searchable keywords",
			zap.String("seeker_id", profile.SeekerID.String()))
		return 0, nil
	}

	results := make(chan taskResult, len(tasks))

	g := &errgroup.Group{}
	g.SetLimit(f.cfg.Workers)
	for _, t := range tasks {
		g.Go(func() error {
			results <- f.runTask(ctx, t)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	// Counters are owned by this single consumer; workers only send results.
	var completed, inserted, failed int
	var persistErr error
	for res := range results {
		completed++
		switch {
		case res.persistErr != nil:
			if persistErr == nil {
				persistErr = res.persistErr
			}
		case res.searchErr != nil:
			failed++
			f.logger.Warn("cold start task failed",
				zap.String("provider", res.provider),
				zap.String("location", res.location),
				zap.Error(res.searchErr))
		default:
			inserted += res.inserted
		}
		if onProgress != nil {
			onProgress(completed, len(tasks))
		}
	}

	if persistErr != nil {
		return inserted, persistErr
	}

	f.logger.Info("cold start complete",
		zap.String("seeker_id", profile.SeekerID.String()),
		zap.Int("tasks", len(tasks)),
		zap.Int("failed_tasks", failed),
		zap.Int("new_candidates", inserted))
	return inserted, nil
}

// buildTasks crosses keyword batches with locations for every provider that
// supports the location. Seekers without locations still get general searches.
func (f *Fetcher) buildTasks(profile *types.Profile) []task {
	batches := batchKeywords(profile.Keywords, f.cfg.KeywordBatchSize)
	if len(batches) == 0 {
		return nil
	}

	locations := profile.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}

	var tasks []task
	for _, p := range f.providers {
		for _, loc := range locations {
			if !p.Supports(loc) {
				continue
			}
			for _, batch := range batches {
				tasks = append(tasks, task{provider: p, keywords: batch, location: loc})
			}
		}
	}
	return tasks
}

// runTask searches every configured page, then persists the accumulated finds
// in one streaming insert.
func (f *Fetcher) runTask(ctx context.Context, t task) taskResult {
	res := taskResult{provider: t.provider.Name(), location: t.location}

	var found []types.RawCandidate
	for page := 1; page <= f.cfg.Pages; page++ {
		candidates, err := t.provider.Search(ctx, Query{
			Keywords: t.keywords,
			Location: t.location,
			Page:     page,
		})
		if err != nil {
			res.searchErr = err
			return res
		}
		found = append(found, candidates...)
		if len(candidates) == 0 {
			break // provider exhausted before the page limit
		}
	}

	if len(found) == 0 {
		return res
	}

	inserted, err := f.store.InsertDiscovered(ctx, found)
	if err != nil {
		res.persistErr = err
		return res
	}
	res.inserted = inserted
	return res
}

func batchKeywords(keywords []string, size int) [][]string {
	var cleaned []string
	for _, kw := range keywords {
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	var batches [][]string
	for start := 0; start < len(cleaned); start += size {
		end := start + size
		if end > len(cleaned) {
			end = len(cleaned)
		}
		batches = append(batches, cleaned[start:end])
	}
	return batches
}

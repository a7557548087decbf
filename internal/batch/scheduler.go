package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

const DefaultConcurrency = 10

// Prober checks a single site. Implementations must always return a result.
type Prober interface {
	Probe(ctx context.Context, site models.Site) models.CheckResult
}

// ProgressFunc observes completion after each chunk.
type ProgressFunc func(completed, total int)

// Scheduler drives a Prober over a working set chunk by chunk.
type Scheduler struct {
	prober      Prober
	concurrency int
	progress    ProgressFunc
}

// NewScheduler creates a Scheduler. A non-positive concurrency falls back to
// DefaultConcurrency. progress may be nil.
func NewScheduler(prober Prober, concurrency int, progress ProgressFunc) *Scheduler {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	return &Scheduler{
		prober:      prober,
		concurrency: concurrency,
		progress:    progress,
	}
}

// Run probes every site and returns len(sites) results in input order.
func (s *Scheduler) Run(ctx context.Context, sites []models.Site) []models.CheckResult {
	results := make([]models.CheckResult, len(sites))
	total := len(sites)

	for start := 0; start < total; start += s.concurrency {
		end := min(start+s.concurrency, total)

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = s.prober.Probe(ctx, sites[i])
				return nil
			})
		}
		// probes never fail; Wait is the chunk barrier
		_ = g.Wait()

		if s.progress != nil {
			s.progress(end, total)
		}
	}

	return results
}

// Concurrency returns the effective ceiling.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

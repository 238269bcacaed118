package checker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"dot5/internal/model"
)

// CheckFunc evaluates a single candidate.
type CheckFunc func(ctx context.Context, c model.Candidate) model.Report

// Scheduler runs a CheckFunc over many candidates with bounded parallelism.
type Scheduler struct {
	// Workers caps the number of in-flight checks. Zero means DefaultWorkers.
	Workers int
	// Limiter, when set, paces how fast checks are started.
	Limiter *rate.Limiter
	// OnResult is called once per finished check. Calls are serialized.
	OnResult func(model.Report)
}

// Run executes check for every candidate and returns the outcomes in
// completion order. A panicking check is turned into a fake outcome.
func (s *Scheduler) Run(ctx context.Context, cands []model.Candidate, check CheckFunc) []model.Report {
	out := make([]model.Report, 0, len(cands))
	if len(cands) == 0 {
		return out
	}

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)

	for _, c := range cands {
		if s.Limiter != nil {
			// A cancelled context makes the check itself fail fast, which
			// still yields an outcome for c.
			_ = s.Limiter.Wait(ctx)
		}
		g.Go(func() error {
			rep := safeCheck(ctx, c, check)
			mu.Lock()
			out = append(out, rep)
			if s.OnResult != nil {
				s.OnResult(rep)
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

func safeCheck(ctx context.Context, c model.Candidate, check CheckFunc) (rep model.Report) {
	defer func() {
		if r := recover(); r != nil {
			rep = model.Report{
				Input:           c.Input,
				NormalizedProxy: c.Proxy,
				Status:          model.StatusFake,
				Error:           fmt.Sprintf("check panicked: %v", r),
				Source:          c.Source,
				PortsTried:      c.PortsTried,
			}
		}
	}()
	return check(ctx, c)
}

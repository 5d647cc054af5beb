package service

import (
	"context"
	"time"

	"gridsim/internal/repository"
)

// SchedulerService keeps run results fresh: on every tick it re-runs any
// stored system edited after its latest run, and gives first runs to
// systems that have never been simulated.
type SchedulerService struct {
	systems repository.SystemRepo
	runs    repository.RunRepo
	planner Planner
}

func NewSchedulerService(systems repository.SystemRepo, runs repository.RunRepo, planner Planner) *SchedulerService {
	return &SchedulerService{systems: systems, runs: runs, planner: planner}
}

// Run ticks at the given interval until ctx is canceled. Individual
// failures are skipped; the next tick retries naturally.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refreshStale(ctx)
		}
	}
}

// refreshStale runs one sweep over the catalog.
func (s *SchedulerService) refreshStale(ctx context.Context) {
	all, err := s.systems.List(ctx)
	if err != nil {
		return
	}
	for _, sys := range all {
		if s.isStale(ctx, sys.ID, sys.UpdatedAt) {
			_, _ = s.planner.Run(ctx, sys.ID)
		}
	}
}

// isStale reports whether the system has no run yet or was edited after
// its most recent run started.
func (s *SchedulerService) isStale(ctx context.Context, systemID string, updatedAt time.Time) bool {
	runs, err := s.runs.List(ctx, time.Time{}, time.Time{}, systemID)
	if err != nil {
		return false
	}
	if len(runs) == 0 {
		return true
	}
	last := runs[len(runs)-1]
	return updatedAt.After(last.StartedAt)
}

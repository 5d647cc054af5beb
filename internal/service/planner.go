package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gridsim/internal/engine"
	"gridsim/internal/models"
	"gridsim/internal/repository"
)

// PlannerService drives the simulation engine for stored systems and
// records each completed run in the ledger.
type PlannerService struct {
	systems repository.SystemRepo
	runs    repository.RunRepo
}

func NewPlannerService(systems repository.SystemRepo, runs repository.RunRepo) *PlannerService {
	return &PlannerService{systems: systems, runs: runs}
}

// Run loads the system, validates it, computes all 24 hours and persists
// the run. The engine call itself is pure; persistence is the only side
// effect here.
func (s *PlannerService) Run(ctx context.Context, systemID string) (models.SimulationRun, error) {
	sys, err := s.systems.Get(ctx, systemID)
	if err != nil {
		return models.SimulationRun{}, err
	}
	if err := validateDefinition(sys.Definition); err != nil {
		return models.SimulationRun{}, fmt.Errorf("system %q: %w", systemID, err)
	}

	results := engine.RunSimulation(sys.Definition)
	run := summarizeRun(systemID, results)

	if err := s.runs.Append(ctx, run); err != nil {
		return models.SimulationRun{}, fmt.Errorf("record run for system %q: %w", systemID, err)
	}
	return run, nil
}

// summarizeRun rolls the 24 hourly results up into one ledger row.
func summarizeRun(systemID string, results []models.HourlyResult) models.SimulationRun {
	run := models.SimulationRun{
		RunID:     uuid.NewString(),
		SystemID:  systemID,
		StartedAt: time.Now().UTC(),
		Results:   results,
	}
	for _, r := range results {
		run.TotalCost += r.TotalCost
		if r.TotalLoadMW > run.PeakLoadMW {
			run.PeakLoadMW = r.TotalLoadMW
		}
		run.AlertCount += len(r.Alerts)
	}
	return run
}

package service

import (
	"context"
	"time"

	"gridsim/internal/models"
	"gridsim/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Catalog manages stored grid system definitions (the structures the
// external editor creates and mutates between runs).
type Catalog interface {
	Create(ctx context.Context, name string, def models.SystemDefinition) (models.GridSystem, error)
	Get(ctx context.Context, id string) (models.GridSystem, error)
	List(ctx context.Context) ([]models.GridSystem, error)
	Update(ctx context.Context, id, name string, def models.SystemDefinition) (models.GridSystem, error)
	Delete(ctx context.Context, id string) error
	// EnsureDefault seeds the built-in example system when the catalog
	// is empty and returns it.
	EnsureDefault(ctx context.Context) (models.GridSystem, error)
}

// Planner runs the 24-hour simulation for a stored system and persists
// the resulting run record.
type Planner interface {
	Run(ctx context.Context, systemID string) (models.SimulationRun, error)
}

// RunLog exposes the append-only run ledger with filtered access.
type RunLog interface {
	List(ctx context.Context, f RunFilter) ([]models.SimulationRun, error)
	Get(ctx context.Context, runID string) (models.SimulationRun, error)
	Latest(ctx context.Context) (models.SimulationRun, error)
}

// Scheduler re-runs stale systems in the background so watchers always
// see results matching the latest edits. Stop via context cancellation
// in main() for graceful shutdown.
type Scheduler interface {
	Run(ctx context.Context, tick time.Duration)
}

// Root Service aggregates all sub-services.
type Service struct {
	Catalog
	Planner
	RunLog
	Scheduler
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	planner := NewPlannerService(repos.Systems, repos.Runs)
	return &Service{
		Catalog:       NewCatalogService(repos.Systems),
		Planner:       planner,
		RunLog:        NewRunLogService(repos.Runs),
		Scheduler:     NewSchedulerService(repos.Systems, repos.Runs, planner),
		Authorization: NewAuthService(repos.Auth),
	}
}

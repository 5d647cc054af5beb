package repository

import (
	"context"
	"database/sql"
	"time"

	"gridsim/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// SystemRepo stores named grid system definitions.
type SystemRepo interface {
	Save(ctx context.Context, s models.GridSystem) error
	Get(ctx context.Context, id string) (models.GridSystem, error)
	List(ctx context.Context) ([]models.GridSystem, error)
	Delete(ctx context.Context, id string) error
}

// RunRepo is the append-only ledger of completed simulation runs.
type RunRepo interface {
	Append(ctx context.Context, r models.SimulationRun) error
	Get(ctx context.Context, runID string) (models.SimulationRun, error)
	Latest(ctx context.Context) (models.SimulationRun, error)
	List(ctx context.Context, from, to time.Time, systemID string) ([]models.SimulationRun, error)
}

type Repository struct {
	Systems SystemRepo
	Runs    RunRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Systems: NewSystemSQLite(db),
		Runs:    NewRunSQLite(db),
		Auth:    NewUserRepository(db),
	}
}

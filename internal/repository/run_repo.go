package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gridsim/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

var _ RunRepo = (*RunSQLite)(nil)

const (
	insertRunSQL = `
		INSERT INTO simulation_runs (id, system_id, started_at, total_cost, peak_load_mw, alert_count, results)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	runColumns = `id, system_id, started_at, total_cost, peak_load_mw, alert_count, results`
)

// Append inserts a completed run. Missing RunID/StartedAt are filled in.
func (r *RunSQLite) Append(ctx context.Context, run models.SimulationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	} else {
		run.StartedAt = run.StartedAt.UTC()
	}

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results for run %q: %w", run.RunID, err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.RunID,
		run.SystemID,
		run.StartedAt.Format("2006-01-02 15:04:05"),
		run.TotalCost,
		run.PeakLoadMW,
		run.AlertCount,
		string(results),
	)
	return err
}

func (r *RunSQLite) Get(ctx context.Context, runID string) (models.SimulationRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM simulation_runs WHERE id=?`, runID)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SimulationRun{}, ErrNotFound
	}
	return run, err
}

func (r *RunSQLite) Latest(ctx context.Context) (models.SimulationRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM simulation_runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SimulationRun{}, ErrNotFound
	}
	return run, err
}

// List returns run summaries filtered by [from, to] (inclusive) and/or
// system id, ordered by start time ascending. Results payloads are
// included as stored.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, systemID string) ([]models.SimulationRun, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, to.UTC())
	}
	if systemID = strings.TrimSpace(systemID); systemID != "" {
		conds = append(conds, "system_id = ?")
		args = append(args, systemID)
	}

	q := `SELECT ` + runColumns + ` FROM simulation_runs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SimulationRun, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(scan func(...any) error) (models.SimulationRun, error) {
	var (
		run         models.SimulationRun
		resultsJSON sql.NullString
	)
	if err := scan(
		&run.RunID,
		&run.SystemID,
		&run.StartedAt,
		&run.TotalCost,
		&run.PeakLoadMW,
		&run.AlertCount,
		&resultsJSON,
	); err != nil {
		return models.SimulationRun{}, err
	}
	run.StartedAt = run.StartedAt.UTC()
	if resultsJSON.Valid && resultsJSON.String != "" {
		if err := json.Unmarshal([]byte(resultsJSON.String), &run.Results); err != nil {
			return models.SimulationRun{}, fmt.Errorf("unmarshal results for run %q: %w", run.RunID, err)
		}
	}
	return run, nil
}

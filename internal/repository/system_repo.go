package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gridsim/internal/models"
)

// ErrNotFound is returned when a requested system or run does not exist.
var ErrNotFound = errors.New("not found")

type SystemSQLite struct {
	db *sql.DB
}

func NewSystemSQLite(db *sql.DB) *SystemSQLite {
	return &SystemSQLite{db: db}
}

var _ SystemRepo = (*SystemSQLite)(nil)

const (
	upsertSystemSQL = `
		INSERT INTO grid_systems (id, name, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			definition=excluded.definition,
			updated_at=excluded.updated_at
	`

	selectSystemSQL  = `SELECT id, name, definition, created_at, updated_at FROM grid_systems WHERE id=?`
	selectSystemsSQL = `SELECT id, name, definition, created_at, updated_at FROM grid_systems ORDER BY created_at ASC`
	deleteSystemSQL  = `DELETE FROM grid_systems WHERE id=?`
)

// Save inserts or updates a stored system. Timestamps are persisted as UTC;
// zero CreatedAt/UpdatedAt are stamped with "now".
func (r *SystemSQLite) Save(ctx context.Context, s models.GridSystem) error {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return fmt.Errorf("marshal system definition %q: %w", s.ID, err)
	}

	now := time.Now().UTC()
	created := s.CreatedAt
	if created.IsZero() {
		created = now
	} else {
		created = created.UTC()
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = now
	} else {
		updated = updated.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertSystemSQL, s.ID, s.Name, string(def), created, updated)
	return err
}

func (r *SystemSQLite) Get(ctx context.Context, id string) (models.GridSystem, error) {
	row := r.db.QueryRowContext(ctx, selectSystemSQL, id)
	s, err := scanSystem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GridSystem{}, ErrNotFound
	}
	return s, err
}

func (r *SystemSQLite) List(ctx context.Context) ([]models.GridSystem, error) {
	rows, err := r.db.QueryContext(ctx, selectSystemsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.GridSystem, 0, 8)
	for rows.Next() {
		s, err := scanSystem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SystemSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteSystemSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanSystem reads one grid_systems row via the given Scan func.
func scanSystem(scan func(...any) error) (models.GridSystem, error) {
	var (
		s       models.GridSystem
		defJSON string
	)
	if err := scan(&s.ID, &s.Name, &defJSON, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return models.GridSystem{}, err
	}
	if err := json.Unmarshal([]byte(defJSON), &s.Definition); err != nil {
		return models.GridSystem{}, fmt.Errorf("unmarshal system definition %q: %w", s.ID, err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

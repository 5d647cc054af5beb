package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"gridsim/internal/models"
	"gridsim/internal/repository"
)

func newRunMock(t *testing.T) (*repository.RunSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	repo := repository.NewRunSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestRunSQLite_Append_FillsRunIDAndTimestamp(t *testing.T) {
	repo, mock, cleanup := newRunMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO simulation_runs")).
		WithArgs(
			sqlmock.AnyArg(), // generated uuid
			"sys-1",
			sqlmock.AnyArg(), // started_at stamped
			2400.0,
			130.0,
			1,
			sqlmock.AnyArg(), // results JSON
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := models.SimulationRun{
		SystemID:   "sys-1",
		TotalCost:  2400,
		PeakLoadMW: 130,
		AlertCount: 1,
		Results: []models.HourlyResult{
			{Hour: 0, TotalLoadMW: 130, Alerts: []string{"line L1 (bus 1-bus 2) overloaded at 120.0%"}},
		},
	}
	if err := repo.Append(context.Background(), run); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
}

func TestRunSQLite_List_BuildsFilterClauses(t *testing.T) {
	repo, mock, cleanup := newRunMock(t)
	defer cleanup()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "system_id", "started_at", "total_cost", "peak_load_mw", "alert_count", "results"}).
		AddRow("run-1", "sys-1", from.Add(time.Hour), 1000.0, 110.0, 0, `[]`)

	mock.ExpectQuery(`SELECT .+ FROM simulation_runs WHERE started_at >= \? AND started_at <= \? AND system_id = \? ORDER BY started_at ASC`).
		WithArgs(from, to, "sys-1").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), from, to, "sys-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].RunID != "run-1" {
		t.Fatalf("got %+v", got)
	}
	if got[0].StartedAt.Location() != time.UTC {
		t.Fatalf("StartedAt not normalized to UTC")
	}
}

func TestRunSQLite_Get_UnmarshalsResults(t *testing.T) {
	repo, mock, cleanup := newRunMock(t)
	defer cleanup()

	resultsJSON := `[{"hour":0,"total_load_mw":100,"committed":{"G1":true},` +
		`"dispatch_mw":{"G1":100},"flow_mw":{"L1":100},"loading_pct":{"L1":20},` +
		`"total_cost":1000,"price_by_bus":{"1":10,"2":10}}]`

	rows := sqlmock.NewRows([]string{"id", "system_id", "started_at", "total_cost", "peak_load_mw", "alert_count", "results"}).
		AddRow("run-1", "sys-1", time.Now().UTC(), 1000.0, 100.0, 0, resultsJSON)

	mock.ExpectQuery(`SELECT .+ FROM simulation_runs WHERE id=\?`).
		WithArgs("run-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Results) != 1 {
		t.Fatalf("results len = %d, want 1", len(got.Results))
	}
	hr := got.Results[0]
	if !hr.Committed["G1"] || hr.DispatchMW["G1"] != 100 {
		t.Fatalf("hourly result not restored: %+v", hr)
	}
	if hr.PriceByBus[1] != 10 {
		t.Fatalf("PriceByBus[1] = %v, want 10", hr.PriceByBus[1])
	}
}

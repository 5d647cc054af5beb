package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gridsim/internal/models"
	"gridsim/internal/repository"
)

// ---- Test doubles ----

// fakeSystemRepo is an in-memory stub for repository.SystemRepo.
type fakeSystemRepo struct {
	byID  map[string]models.GridSystem
	order []string
	err   error
}

func newFakeSystemRepo() *fakeSystemRepo {
	return &fakeSystemRepo{byID: make(map[string]models.GridSystem)}
}

func (f *fakeSystemRepo) Save(ctx context.Context, s models.GridSystem) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[s.ID]; !ok {
		f.order = append(f.order, s.ID)
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSystemRepo) Get(ctx context.Context, id string) (models.GridSystem, error) {
	if f.err != nil {
		return models.GridSystem{}, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return models.GridSystem{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSystemRepo) List(ctx context.Context) ([]models.GridSystem, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.GridSystem, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeSystemRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRunRepo is an in-memory stub for repository.RunRepo.
type fakeRunRepo struct {
	appended []models.SimulationRun
	err      error
}

func (f *fakeRunRepo) Append(ctx context.Context, r models.SimulationRun) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, r)
	return nil
}

func (f *fakeRunRepo) Get(ctx context.Context, runID string) (models.SimulationRun, error) {
	for _, r := range f.appended {
		if r.RunID == runID {
			return r, nil
		}
	}
	return models.SimulationRun{}, repository.ErrNotFound
}

func (f *fakeRunRepo) Latest(ctx context.Context) (models.SimulationRun, error) {
	if len(f.appended) == 0 {
		return models.SimulationRun{}, repository.ErrNotFound
	}
	return f.appended[len(f.appended)-1], nil
}

func (f *fakeRunRepo) List(ctx context.Context, from, to time.Time, systemID string) ([]models.SimulationRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.SimulationRun, 0, len(f.appended))
	for _, r := range f.appended {
		if systemID != "" && r.SystemID != systemID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func seedSystem(t *testing.T, repo *fakeSystemRepo, def models.SystemDefinition) models.GridSystem {
	t.Helper()
	sys := models.GridSystem{
		ID:         "sys-1",
		Name:       "test system",
		Definition: def,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := repo.Save(context.Background(), sys); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return sys
}

// ---- Tests ----

func TestPlanner_Run_PersistsSummarizedRun(t *testing.T) {
	ctx := context.Background()
	systems := newFakeSystemRepo()
	runs := &fakeRunRepo{}
	seedSystem(t, systems, DefaultDefinition())

	svc := NewPlannerService(systems, runs)
	run, err := svc.Run(ctx, "sys-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if run.RunID == "" {
		t.Fatalf("run id not assigned")
	}
	if len(run.Results) != models.HoursPerDay {
		t.Fatalf("results = %d hours, want %d", len(run.Results), models.HoursPerDay)
	}
	if len(runs.appended) != 1 {
		t.Fatalf("%d runs persisted, want 1", len(runs.appended))
	}

	// Summary rollups must match the hourly records.
	var cost, peak float64
	alerts := 0
	for _, r := range run.Results {
		cost += r.TotalCost
		if r.TotalLoadMW > peak {
			peak = r.TotalLoadMW
		}
		alerts += len(r.Alerts)
	}
	if run.TotalCost != cost || run.PeakLoadMW != peak || run.AlertCount != alerts {
		t.Fatalf("summary mismatch: %+v vs cost=%v peak=%v alerts=%d", run, cost, peak, alerts)
	}

	// Default daily shape peaks at factor 1.10 over 260 MW base load.
	if peak < 260 {
		t.Fatalf("peak load %v suspiciously low for default system", peak)
	}
}

func TestPlanner_Run_UnknownSystem(t *testing.T) {
	svc := NewPlannerService(newFakeSystemRepo(), &fakeRunRepo{})
	if _, err := svc.Run(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPlanner_Run_RejectsInvalidStoredDefinition(t *testing.T) {
	systems := newFakeSystemRepo()
	runs := &fakeRunRepo{}
	def := DefaultDefinition()
	def.Generators[0].Bus = 99 // dangling reference
	seedSystem(t, systems, def)

	svc := NewPlannerService(systems, runs)
	if _, err := svc.Run(context.Background(), "sys-1"); !errors.Is(err, ErrUnknownBusRef) {
		t.Fatalf("err = %v, want ErrUnknownBusRef", err)
	}
	if len(runs.appended) != 0 {
		t.Fatalf("invalid system must not produce a run")
	}
}

func TestPlanner_Run_DeterministicAcrossCalls(t *testing.T) {
	ctx := context.Background()
	systems := newFakeSystemRepo()
	runs := &fakeRunRepo{}
	seedSystem(t, systems, DefaultDefinition())

	svc := NewPlannerService(systems, runs)
	first, err := svc.Run(ctx, "sys-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := svc.Run(ctx, "sys-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.TotalCost != second.TotalCost || first.PeakLoadMW != second.PeakLoadMW {
		t.Fatalf("identical input produced different summaries: %+v vs %+v", first, second)
	}
}

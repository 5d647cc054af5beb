package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gridsim/internal/models"
	"gridsim/internal/repository"
)

// Input validation errors. These cover structural integrity only:
// reactance and capacity values are deliberately not checked, so that
// bad numeric data flows through the engine's documented zero-angle
// fallback instead of being rejected up front.
var (
	ErrNoBuses          = errors.New("system has no buses")
	ErrDuplicateBus     = errors.New("duplicate bus id")
	ErrUnknownBusRef    = errors.New("reference to unknown bus id")
	ErrBadLoadFactors   = errors.New("load_factors must hold exactly 24 non-negative values")
	ErrBadGeneratorSpan = errors.New("generator p_min_mw must not exceed p_max_mw")
)

type CatalogService struct {
	systems repository.SystemRepo
}

func NewCatalogService(systems repository.SystemRepo) *CatalogService {
	return &CatalogService{systems: systems}
}

// validateDefinition checks referential integrity and the load-factor
// sequence of a system definition before it is stored or simulated.
func validateDefinition(def models.SystemDefinition) error {
	if len(def.Buses) == 0 {
		return ErrNoBuses
	}

	known := make(map[int]bool, len(def.Buses))
	for _, b := range def.Buses {
		if known[b.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateBus, b.ID)
		}
		known[b.ID] = true
	}
	for _, g := range def.Generators {
		if !known[g.Bus] {
			return fmt.Errorf("%w: generator %s on bus %d", ErrUnknownBusRef, g.ID, g.Bus)
		}
		if g.PMinMW > g.PMaxMW {
			return fmt.Errorf("%w: generator %s", ErrBadGeneratorSpan, g.ID)
		}
	}
	for _, ln := range def.Lines {
		if !known[ln.FromBus] || !known[ln.ToBus] {
			return fmt.Errorf("%w: line %s (%d-%d)", ErrUnknownBusRef, ln.ID, ln.FromBus, ln.ToBus)
		}
	}

	if len(def.LoadFactors) != models.HoursPerDay {
		return ErrBadLoadFactors
	}
	for _, f := range def.LoadFactors {
		if f < 0 {
			return ErrBadLoadFactors
		}
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, name string, def models.SystemDefinition) (models.GridSystem, error) {
	if err := validateDefinition(def); err != nil {
		return models.GridSystem{}, err
	}
	now := time.Now().UTC()
	sys := models.GridSystem{
		ID:         uuid.NewString(),
		Name:       name,
		Definition: def,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.systems.Save(ctx, sys); err != nil {
		return models.GridSystem{}, err
	}
	return sys, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.GridSystem, error) {
	return s.systems.Get(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]models.GridSystem, error) {
	return s.systems.List(ctx)
}

// Update replaces a stored system's name and definition, bumping
// UpdatedAt so the scheduler notices the edit.
func (s *CatalogService) Update(ctx context.Context, id, name string, def models.SystemDefinition) (models.GridSystem, error) {
	if err := validateDefinition(def); err != nil {
		return models.GridSystem{}, err
	}
	sys, err := s.systems.Get(ctx, id)
	if err != nil {
		return models.GridSystem{}, err
	}
	sys.Name = name
	sys.Definition = def
	sys.UpdatedAt = time.Now().UTC()
	if err := s.systems.Save(ctx, sys); err != nil {
		return models.GridSystem{}, err
	}
	return sys, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.systems.Delete(ctx, id)
}

// EnsureDefault seeds the built-in example network on an empty catalog.
func (s *CatalogService) EnsureDefault(ctx context.Context) (models.GridSystem, error) {
	existing, err := s.systems.List(ctx)
	if err != nil {
		return models.GridSystem{}, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	return s.Create(ctx, "example five-bus system", DefaultDefinition())
}

// DefaultDefinition is a small five-bus network with a mixed fleet and a
// typical daily load shape: overnight trough, morning ramp, evening peak.
func DefaultDefinition() models.SystemDefinition {
	return models.SystemDefinition{
		Buses: []models.Bus{
			{ID: 1, Type: models.BusSlack, LoadMW: 0, X: 80, Y: 120},
			{ID: 2, Type: models.BusPQ, LoadMW: 120, X: 260, Y: 60},
			{ID: 3, Type: models.BusPQ, LoadMW: 80, X: 420, Y: 140},
			{ID: 4, Type: models.BusPQ, LoadMW: 60, X: 260, Y: 240},
			{ID: 5, Type: models.BusPV, LoadMW: 0, X: 440, Y: 300},
		},
		Generators: []models.Generator{
			{ID: "coal-1", Bus: 1, PMinMW: 50, PMaxMW: 220, CostB: 18, CostC: 400},
			{ID: "wind-5", Bus: 5, PMinMW: 0, PMaxMW: 120, CostB: 5, CostC: 0},
			{ID: "gas-4", Bus: 4, PMinMW: 0, PMaxMW: 150, CostB: 45, CostC: 120},
		},
		Lines: []models.Line{
			{ID: "L1-2", FromBus: 1, ToBus: 2, ReactancePU: 0.06, CapacityMW: 200},
			{ID: "L2-3", FromBus: 2, ToBus: 3, ReactancePU: 0.08, CapacityMW: 150},
			{ID: "L1-4", FromBus: 1, ToBus: 4, ReactancePU: 0.05, CapacityMW: 180},
			{ID: "L4-5", FromBus: 4, ToBus: 5, ReactancePU: 0.07, CapacityMW: 150},
			{ID: "L3-5", FromBus: 3, ToBus: 5, ReactancePU: 0.09, CapacityMW: 120},
		},
		LoadFactors: []float64{
			0.62, 0.58, 0.55, 0.54, 0.56, 0.62,
			0.72, 0.84, 0.92, 0.96, 0.98, 1.00,
			0.99, 0.97, 0.95, 0.94, 0.96, 1.02,
			1.08, 1.10, 1.05, 0.95, 0.82, 0.70,
		},
	}
}

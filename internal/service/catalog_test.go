package service

import (
	"context"
	"errors"
	"testing"

	"gridsim/internal/models"
)

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.SystemDefinition)
		wantErr error
	}{
		{"default is valid", func(d *models.SystemDefinition) {}, nil},
		{"no buses", func(d *models.SystemDefinition) { d.Buses = nil }, ErrNoBuses},
		{"duplicate bus id", func(d *models.SystemDefinition) { d.Buses[1].ID = d.Buses[0].ID }, ErrDuplicateBus},
		{"generator on unknown bus", func(d *models.SystemDefinition) { d.Generators[0].Bus = 42 }, ErrUnknownBusRef},
		{"line to unknown bus", func(d *models.SystemDefinition) { d.Lines[0].ToBus = 42 }, ErrUnknownBusRef},
		{"inverted generator bounds", func(d *models.SystemDefinition) {
			d.Generators[0].PMinMW = d.Generators[0].PMaxMW + 1
		}, ErrBadGeneratorSpan},
		{"short factor sequence", func(d *models.SystemDefinition) { d.LoadFactors = d.LoadFactors[:23] }, ErrBadLoadFactors},
		{"negative factor", func(d *models.SystemDefinition) { d.LoadFactors[7] = -0.1 }, ErrBadLoadFactors},
		// Zero reactance is a data-quality concern handled by the engine
		// fallback, never a validation failure.
		{"zero reactance passes", func(d *models.SystemDefinition) { d.Lines[0].ReactancePU = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := DefaultDefinition()
			tt.mutate(&def)
			err := validateDefinition(def)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validateDefinition() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateDefinition() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalog_CreateAssignsIDAndTimestamps(t *testing.T) {
	svc := NewCatalogService(newFakeSystemRepo())
	sys, err := svc.Create(context.Background(), "my grid", DefaultDefinition())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sys.ID == "" || sys.CreatedAt.IsZero() || sys.UpdatedAt.IsZero() {
		t.Fatalf("incomplete system: %+v", sys)
	}
}

func TestCatalog_UpdateBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSystemRepo()
	svc := NewCatalogService(repo)

	sys, err := svc.Create(ctx, "my grid", DefaultDefinition())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	def := DefaultDefinition()
	def.Generators[0].CostB = 25
	updated, err := svc.Update(ctx, sys.ID, "my grid v2", def)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.UpdatedAt.After(sys.UpdatedAt) && !updated.UpdatedAt.Equal(sys.UpdatedAt) {
		t.Fatalf("UpdatedAt went backwards")
	}
	if updated.Definition.Generators[0].CostB != 25 {
		t.Fatalf("definition not replaced")
	}
	if updated.CreatedAt != sys.CreatedAt {
		t.Fatalf("CreatedAt must be preserved on update")
	}
}

func TestCatalog_EnsureDefault(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSystemRepo()
	svc := NewCatalogService(repo)

	t.Run("seeds on empty catalog", func(t *testing.T) {
		sys, err := svc.EnsureDefault(ctx)
		if err != nil {
			t.Fatalf("EnsureDefault() error = %v", err)
		}
		if len(sys.Definition.Buses) != 5 {
			t.Fatalf("default has %d buses, want 5", len(sys.Definition.Buses))
		}
		if len(sys.Definition.LoadFactors) != models.HoursPerDay {
			t.Fatalf("default has %d factors", len(sys.Definition.LoadFactors))
		}
	})

	t.Run("idempotent once seeded", func(t *testing.T) {
		first, _ := svc.EnsureDefault(ctx)
		second, err := svc.EnsureDefault(ctx)
		if err != nil {
			t.Fatalf("EnsureDefault() error = %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("EnsureDefault created a duplicate system")
		}
	})
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gridsim/internal/models"
	"gridsim/internal/repository"
)

type RunLogService struct {
	runs repository.RunRepo
}

func NewRunLogService(runs repository.RunRepo) *RunLogService {
	return &RunLogService{runs: runs}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f RunFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, strings.TrimSpace(f.SystemID), nil
}

func (s *RunLogService) List(ctx context.Context, f RunFilter) ([]models.SimulationRun, error) {
	from, to, systemID, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.runs.List(ctx, from, to, systemID)
}

func (s *RunLogService) Get(ctx context.Context, runID string) (models.SimulationRun, error) {
	return s.runs.Get(ctx, runID)
}

func (s *RunLogService) Latest(ctx context.Context) (models.SimulationRun, error) {
	return s.runs.Latest(ctx)
}

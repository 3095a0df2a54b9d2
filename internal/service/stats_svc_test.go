package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
)

type fakeStatsStore struct {
	stats *model.StatsResponse
	err   error
}

func (s *fakeStatsStore) GetStats(_ context.Context) (*model.StatsResponse, error) {
	return s.stats, s.err
}

func TestStatsOverview(t *testing.T) {
	svc := NewStatsService(&fakeStatsStore{stats: &model.StatsResponse{
		TotalDataPoints:   120,
		TotalValidations:  45,
		TotalUsers:        10,
		ValidationsByType: map[string]int{"confirm": 30, "dispute": 10, "flag": 5},
	}})

	stats, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if stats.TotalDataPoints != 120 || stats.ValidationsByType["confirm"] != 30 {
		t.Errorf("stats passed through wrong: %+v", stats)
	}
}

func TestStatsOverviewEmptyPlatform(t *testing.T) {
	svc := NewStatsService(&fakeStatsStore{stats: &model.StatsResponse{}})

	stats, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if stats.ValidationsByType == nil {
		t.Error("ValidationsByType must be an empty map, not nil, so the JSON is {} not null")
	}
}

func TestStatsOverviewStoreError(t *testing.T) {
	svc := NewStatsService(&fakeStatsStore{err: errors.New("connection refused")})

	if _, err := svc.Overview(context.Background()); err == nil {
		t.Error("store error swallowed")
	}
}

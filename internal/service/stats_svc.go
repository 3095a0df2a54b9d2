package service

import (
	"context"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
)

// StatsStore is the aggregate-query contract behind platform statistics.
type StatsStore interface {
	GetStats(ctx context.Context) (*model.StatsResponse, error)
}

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Overview returns platform-wide statistics. The per-type map is always
// present so the JSON shows {} rather than null on an empty platform.
func (s *StatsService) Overview(ctx context.Context) (*model.StatsResponse, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.ValidationsByType == nil {
		stats.ValidationsByType = map[string]int{}
	}
	return stats, nil
}

package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
)

type DataPointService struct {
	repo  *repository.DataPointRepo
	cache *CacheService
}

func NewDataPointService(repo *repository.DataPointRepo, cache *CacheService) *DataPointService {
	return &DataPointService{repo: repo, cache: cache}
}

// Lookup returns a single data point, serving from the Redis cache when
// possible. The second return value reports a cache hit.
func (s *DataPointService) Lookup(ctx context.Context, id string) (*model.DataPoint, bool, error) {
	if s.cache != nil {
		if data, err := s.cache.GetDataPoint(ctx, id); err == nil && data != nil {
			var d model.DataPoint
			if err := json.Unmarshal(data, &d); err == nil {
				return &d, true, nil
			}
		}
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.SetDataPoint(ctx, id, d); err != nil {
			log.Printf("cache: set data point error: %v", err)
		}
	}

	return d, false, nil
}

// DataPointListResponse pairs a page of data points with pagination metadata.
type DataPointListResponse struct {
	DataPoints []model.DataPoint `json:"dataPoints"`
	Pagination model.Pagination  `json:"pagination"`
}

// List returns data points matching the filter, newest first.
func (s *DataPointService) List(ctx context.Context, f model.DataPointFilter) (*DataPointListResponse, error) {
	points, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.DataPoint{}
	}

	return &DataPointListResponse{
		DataPoints: points,
		Pagination: model.Pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+len(points) < total,
		},
	}, nil
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
)

// ValidationStore is the persistence contract the aggregator needs. It is
// implemented by repository.ValidationRepo; tests substitute an in-memory
// fake.
type ValidationStore interface {
	Submit(ctx context.Context, p repository.SubmitParams) (*repository.SubmitResult, error)
	Delete(ctx context.Context, userID, dataPointID string) (model.DataPointCounters, error)
	List(ctx context.Context, f model.ValidationFilter) ([]model.ValidationListItem, int, error)
}

type ValidationService struct {
	store ValidationStore
	cache *CacheService
}

func NewValidationService(store ValidationStore, cache *CacheService) *ValidationService {
	return &ValidationService{store: store, cache: cache}
}

// Submit casts or updates a vote on behalf of an authenticated user and
// returns the stored row plus the data point's updated tallies. The second
// return value reports whether this was a first-time vote.
func (s *ValidationService) Submit(ctx context.Context, userID string, req model.ValidationRequest, ip, userAgent string) (*model.ValidationMutationResponse, bool, error) {
	if !repository.ValidValidationTypes[req.ValidationType] {
		return nil, false, fmt.Errorf("invalid validation type: %s", req.ValidationType)
	}

	result, err := s.store.Submit(ctx, repository.SubmitParams{
		UserID:         userID,
		DataPointID:    req.DataPointID,
		ValidationType: req.ValidationType,
		Comment:        req.Comment,
		EvidenceURLs:   req.EvidenceURLs,
		IPAddress:      ip,
		UserAgent:      userAgent,
	})
	if err != nil {
		return nil, false, err
	}

	s.invalidate(ctx, req.DataPointID)

	message := "Validation updated"
	if result.Created {
		message = "Validation created"
	}

	return &model.ValidationMutationResponse{
		Validation: result.Validation,
		DataPoint:  result.DataPoint,
		Message:    message,
	}, result.Created, nil
}

// Retract removes the user's vote on a data point.
func (s *ValidationService) Retract(ctx context.Context, userID, dataPointID string) error {
	if _, err := s.store.Delete(ctx, userID, dataPointID); err != nil {
		return err
	}
	s.invalidate(ctx, dataPointID)
	return nil
}

// List returns validation rows matching the filter, newest first, with
// pagination metadata.
func (s *ValidationService) List(ctx context.Context, f model.ValidationFilter) (*model.ValidationListResponse, error) {
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ValidationListItem{}
	}

	return &model.ValidationListResponse{
		Validations: items,
		Pagination: model.Pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+len(items) < total,
		},
	}, nil
}

func (s *ValidationService) invalidate(ctx context.Context, dataPointID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateDataPoint(ctx, dataPointID); err != nil {
			log.Printf("cache: invalidate data point error: %v", err)
		}
	}
}

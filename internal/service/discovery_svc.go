package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
)

// Discovery search bounds. Corroborated means the community trust score has
// cleared the threshold a "trusted" reading requires.
const (
	DefaultSimilarRadiusKm    = 100.0
	MaxSimilarRadiusKm        = 500.0
	similarLimit              = 10
	corroboratedTrustScoreMin = 70.0
)

// DiscoveryStore is the data-point access the discovery service needs.
type DiscoveryStore interface {
	FindByID(ctx context.Context, id string) (*model.DataPoint, error)
	ListSimilar(ctx context.Context, p repository.SimilarParams) ([]model.DataPoint, error)
}

// DiscoveryService answers "what do nearby observations of the same kind
// look like" queries: the community signal around one data point.
type DiscoveryService struct {
	store DiscoveryStore
}

func NewDiscoveryService(store DiscoveryStore) *DiscoveryService {
	return &DiscoveryService{store: store}
}

// Similar finds the most-trusted data points of the same type within
// radiusKm of the reference point, with aggregate insights. A non-positive
// radius falls back to the default; oversized radii are capped.
func (s *DiscoveryService) Similar(ctx context.Context, dataPointID string, radiusKm float64) (*model.SimilarDataPointsResponse, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultSimilarRadiusKm
	}
	if radiusKm > MaxSimilarRadiusKm {
		radiusKm = MaxSimilarRadiusKm
	}

	ref, err := s.store.FindByID(ctx, dataPointID)
	if err != nil {
		return nil, err
	}

	similar, err := s.store.ListSimilar(ctx, repository.SimilarParams{
		DataType:  ref.DataType,
		Latitude:  ref.Latitude,
		Longitude: ref.Longitude,
		RadiusKm:  radiusKm,
		ExcludeID: ref.ID,
		Limit:     similarLimit,
	})
	if err != nil {
		return nil, err
	}
	if similar == nil {
		similar = []model.DataPoint{}
	}

	return &model.SimilarDataPointsResponse{
		Reference: model.DataPointSummary{
			ID:            ref.ID,
			DataType:      ref.DataType,
			TrustScore:    ref.TrustScore,
			ConfirmsCount: ref.ConfirmsCount,
			DisputesCount: ref.DisputesCount,
			FlagsCount:    ref.FlagsCount,
		},
		SimilarDataPoints: similar,
		Insights:          computeInsights(similar),
		RadiusKm:          radiusKm,
	}, nil
}

// computeInsights aggregates community signal over a neighbor set. An empty
// set yields zeroed insights, never NaN.
func computeInsights(points []model.DataPoint) model.DiscoveryInsights {
	insights := model.DiscoveryInsights{CorroborationRate: "0%"}
	if len(points) == 0 {
		return insights
	}

	var trustSum float64
	corroborated := 0
	for _, p := range points {
		trustSum += p.TrustScore
		insights.TotalConfirms += p.ConfirmsCount
		insights.TotalDisputes += p.DisputesCount
		if p.TrustScore >= corroboratedTrustScoreMin {
			corroborated++
		}
	}

	insights.AverageTrustScore = math.Round(trustSum/float64(len(points))*10) / 10
	insights.CorroborationRate = fmt.Sprintf("%.0f%%", float64(corroborated)/float64(len(points))*100)
	return insights
}

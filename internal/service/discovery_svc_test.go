package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
)

type fakeDiscoveryStore struct {
	points     map[string]*model.DataPoint
	similar    []model.DataPoint
	lastParams repository.SimilarParams
	similarErr error
}

func (s *fakeDiscoveryStore) FindByID(_ context.Context, id string) (*model.DataPoint, error) {
	p, ok := s.points[id]
	if !ok {
		return nil, repository.ErrDataPointNotFound
	}
	return p, nil
}

func (s *fakeDiscoveryStore) ListSimilar(_ context.Context, p repository.SimilarParams) ([]model.DataPoint, error) {
	s.lastParams = p
	return s.similar, s.similarErr
}

func newDiscoveryFixture() (*DiscoveryService, *fakeDiscoveryStore) {
	store := &fakeDiscoveryStore{
		points: map[string]*model.DataPoint{
			"dp-ref": {
				ID:            "dp-ref",
				DataType:      "solar_farm",
				Latitude:      34.05,
				Longitude:     -118.25,
				TrustScore:    60,
				ConfirmsCount: 3,
				DisputesCount: 2,
			},
		},
	}
	return NewDiscoveryService(store), store
}

func TestSimilarUnknownReference(t *testing.T) {
	svc, _ := newDiscoveryFixture()

	_, err := svc.Similar(context.Background(), "missing", 0)
	if !errors.Is(err, repository.ErrDataPointNotFound) {
		t.Errorf("err = %v, want ErrDataPointNotFound", err)
	}
}

func TestSimilarQueryUsesReferenceAttributes(t *testing.T) {
	svc, store := newDiscoveryFixture()

	_, err := svc.Similar(context.Background(), "dp-ref", 0)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}

	p := store.lastParams
	if p.DataType != "solar_farm" {
		t.Errorf("DataType = %q, want solar_farm", p.DataType)
	}
	if p.Latitude != 34.05 || p.Longitude != -118.25 {
		t.Errorf("coordinates = %v,%v, want reference point's", p.Latitude, p.Longitude)
	}
	if p.ExcludeID != "dp-ref" {
		t.Errorf("ExcludeID = %q, the reference must exclude itself", p.ExcludeID)
	}
	if p.RadiusKm != DefaultSimilarRadiusKm {
		t.Errorf("RadiusKm = %v, want default %v for zero input", p.RadiusKm, DefaultSimilarRadiusKm)
	}
	if p.Limit != similarLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, similarLimit)
	}
}

func TestSimilarRadiusClamped(t *testing.T) {
	svc, store := newDiscoveryFixture()

	resp, err := svc.Similar(context.Background(), "dp-ref", 9999)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if store.lastParams.RadiusKm != MaxSimilarRadiusKm {
		t.Errorf("RadiusKm = %v, want capped at %v", store.lastParams.RadiusKm, MaxSimilarRadiusKm)
	}
	if resp.RadiusKm != MaxSimilarRadiusKm {
		t.Errorf("response RadiusKm = %v, want the clamped value", resp.RadiusKm)
	}
}

func TestSimilarInsights(t *testing.T) {
	svc, store := newDiscoveryFixture()
	store.similar = []model.DataPoint{
		{ID: "a", TrustScore: 90, ConfirmsCount: 9, DisputesCount: 1},
		{ID: "b", TrustScore: 75, ConfirmsCount: 3, DisputesCount: 1},
		{ID: "c", TrustScore: 40, ConfirmsCount: 2, DisputesCount: 3},
	}

	resp, err := svc.Similar(context.Background(), "dp-ref", 50)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}

	in := resp.Insights
	if in.AverageTrustScore != 68.3 {
		t.Errorf("AverageTrustScore = %v, want 68.3", in.AverageTrustScore)
	}
	// Two of three neighbors clear the corroboration threshold.
	if in.CorroborationRate != "67%" {
		t.Errorf("CorroborationRate = %q, want 67%%", in.CorroborationRate)
	}
	if in.TotalConfirms != 14 || in.TotalDisputes != 5 {
		t.Errorf("tallies = %d confirms / %d disputes, want 14/5", in.TotalConfirms, in.TotalDisputes)
	}

	if resp.Reference.ID != "dp-ref" || resp.Reference.TrustScore != 60 {
		t.Errorf("reference summary = %+v", resp.Reference)
	}
}

func TestSimilarNoNeighbors(t *testing.T) {
	svc, _ := newDiscoveryFixture()

	resp, err := svc.Similar(context.Background(), "dp-ref", 50)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}

	if resp.SimilarDataPoints == nil {
		t.Error("SimilarDataPoints must be an empty slice, not nil")
	}
	if resp.Insights.AverageTrustScore != 0 {
		t.Errorf("AverageTrustScore = %v, want 0 with no neighbors", resp.Insights.AverageTrustScore)
	}
	if resp.Insights.CorroborationRate != "0%" {
		t.Errorf("CorroborationRate = %q, want 0%%", resp.Insights.CorroborationRate)
	}
}

func TestSimilarStoreError(t *testing.T) {
	svc, store := newDiscoveryFixture()
	store.similarErr = errors.New("connection refused")

	if _, err := svc.Similar(context.Background(), "dp-ref", 50); err == nil {
		t.Error("store error swallowed")
	}
}

package model

// DiscoveryInsights summarizes the community signal across a set of similar
// data points.
type DiscoveryInsights struct {
	AverageTrustScore float64 `json:"averageTrustScore"`
	CorroborationRate string  `json:"corroborationRate"`
	TotalConfirms     int     `json:"totalConfirms"`
	TotalDisputes     int     `json:"totalDisputes"`
}

// SimilarDataPointsResponse is the API response for GET /api/discovery/similar.
type SimilarDataPointsResponse struct {
	Reference         DataPointSummary  `json:"reference"`
	SimilarDataPoints []DataPoint       `json:"similarDataPoints"`
	Insights          DiscoveryInsights `json:"insights"`
	RadiusKm          float64           `json:"radiusKm"`
}

package model

import (
	"encoding/json"
	"time"
)

// DataPoint represents a single geocoded observation subject to community
// validation (fire detection, energy project, earthquake, ...).
type DataPoint struct {
	ID          string          `json:"id"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	DataType    string          `json:"dataType"`
	SourceID    string          `json:"sourceId"`
	SourceName  *string         `json:"sourceName,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	Severity    *string         `json:"severity,omitempty"`
	Confidence  *float64        `json:"confidence,omitempty"`

	// Community trust metrics
	TrustScore    float64 `json:"trustScore"`
	QualityScore  float64 `json:"qualityScore"`
	ConfirmsCount int     `json:"confirmsCount"`
	DisputesCount int     `json:"disputesCount"`
	FlagsCount    int     `json:"flagsCount"`

	IsVerified bool       `json:"isVerified"`
	ObservedAt *time.Time `json:"observedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// DataPointSummary is the minimal projection joined onto validation listings.
type DataPointSummary struct {
	ID            string  `json:"id"`
	DataType      string  `json:"dataType"`
	TrustScore    float64 `json:"trustScore"`
	ConfirmsCount int     `json:"confirmsCount"`
	DisputesCount int     `json:"disputesCount"`
	FlagsCount    int     `json:"flagsCount"`
}

// DataPointCounters is returned after a vote mutation: the data point's
// updated tallies and recomputed trust score.
type DataPointCounters struct {
	ID            string  `json:"id"`
	TrustScore    float64 `json:"trustScore"`
	ConfirmsCount int     `json:"confirmsCount"`
	DisputesCount int     `json:"disputesCount"`
	FlagsCount    int     `json:"flagsCount"`
}

// DataPointFilter narrows data point listings.
type DataPointFilter struct {
	DataType string
	MinTrust *float64
	BBox     *BoundingBox
	Limit    int
	Offset   int
}

// BoundingBox is a lat/lng rectangle: minLat,minLng,maxLat,maxLng.
type BoundingBox struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

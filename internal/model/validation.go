package model

import "time"

// Validation is a user's confirm/dispute/flag vote on a data point.
// At most one row exists per (user, data point); a repeat vote overwrites
// the row in place and records the prior type in PreviousType.
type Validation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	DataPointID    string    `json:"dataPointId"`
	ValidationType string    `json:"validationType"`
	PreviousType   *string   `json:"previousType,omitempty"`
	Comment        *string   `json:"comment,omitempty"`
	EvidenceURLs   []string  `json:"evidenceUrls,omitempty"`
	IPAddress      *string   `json:"-"`
	UserAgent      *string   `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ValidationRequest is the API request body for casting or updating a vote.
type ValidationRequest struct {
	DataPointID    string   `json:"dataPointId"`
	ValidationType string   `json:"validationType"`
	Comment        string   `json:"comment,omitempty"`
	EvidenceURLs   []string `json:"evidenceUrls,omitempty"`
}

// ValidationListItem is a validation row joined with display projections.
type ValidationListItem struct {
	Validation Validation        `json:"validation"`
	User       *UserSummary      `json:"user,omitempty"`
	DataPoint  *DataPointSummary `json:"dataPoint,omitempty"`
}

// ValidationFilter narrows validation listings.
type ValidationFilter struct {
	DataPointID string
	UserID      string
	Limit       int
	Offset      int
}

// Pagination describes a page of results.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ValidationListResponse is the API response for GET /api/validations.
type ValidationListResponse struct {
	Validations []ValidationListItem `json:"validations"`
	Pagination  Pagination           `json:"pagination"`
}

// ValidationMutationResponse is the API response after casting or updating
// a vote: the stored row plus the data point's new counters and trust score.
type ValidationMutationResponse struct {
	Validation *Validation       `json:"validation"`
	DataPoint  DataPointCounters `json:"dataPoint"`
	Message    string            `json:"message"`
}

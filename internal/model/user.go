package model

import "time"

// User represents a Terra Atlas account with reputation metadata.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	FullName     *string `json:"fullName,omitempty"`
	AvatarURL    *string `json:"avatarUrl,omitempty"`
	Bio          *string `json:"bio,omitempty"`

	// Reputation
	ReputationScore     int     `json:"reputationScore"`
	ValidationsCount    int     `json:"validationsCount"`
	AccurateValidations int     `json:"-"`
	ValidationAccuracy  float64 `json:"validationAccuracy"`
	TrustLevel          string  `json:"trustLevel"`

	IsActive    bool       `json:"-"`
	IsModerator bool       `json:"isModerator"`
	IsAdmin     bool       `json:"isAdmin"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"-"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// UserSummary is the minimal projection joined onto validation listings.
type UserSummary struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	AvatarURL       *string `json:"avatarUrl,omitempty"`
	TrustLevel      string  `json:"trustLevel"`
	ReputationScore int     `json:"reputationScore"`
}

// Session is a persisted refresh-token session.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	RefreshTokenHash string    `json:"-"`
	IPAddress        *string   `json:"-"`
	UserAgent        *string   `json:"-"`
	ExpiresAt        time.Time `json:"expiresAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RegisterRequest is the API request body for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// LoginRequest is the API request body for login.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	TotalDataPoints   int            `json:"totalDataPoints"`
	TotalValidations  int            `json:"totalValidations"`
	TotalUsers        int            `json:"totalUsers"`
	ActiveUsers24h    int            `json:"activeUsers24h"`
	AverageTrust      float64        `json:"averageTrustScore"`
	ValidationsByType map[string]int `json:"validationsByType"`
}

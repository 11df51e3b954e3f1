package domain

import "time"

// TokenPair is what the login and refresh endpoints return: a short-lived
// JWT access token and an opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int64  `json:"expires_in"` // seconds until access expiry
}

// RefreshToken models the stored refresh token record.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

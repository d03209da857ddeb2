package models

import "time"

// Credentials carries a login request straight through to the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the upstream access/refresh token pair. Tokens stay
// server-side; they are never exposed to the browser.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is the backend's view of the authenticated user.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // "patient", "doctor", "helpdesk", "admin"
}

// LoginResult is what medigate hands back to the browser after login.
type LoginResult struct {
	SessionID string    `json:"sessionId"`
	User      UserInfo  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

package entity

import "time"

// Session is the authenticated-session value derived from a verified access token.
// It is passed explicitly to the layers that need it instead of living in global state.
type Session struct {
	Authenticated bool
	UserID        uint
	Username      string
	TokenID       string    // JWT "jti"; used to revoke the token on logout
	ExpiresAt     time.Time // token expiration
}

// Anonymous returns the session of a request without valid credentials.
func Anonymous() Session {
	return Session{}
}

// IsExpired returns true if the session has passed its expiration time.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

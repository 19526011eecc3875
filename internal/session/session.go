// Package session implements the Spotify session lifecycle: persistent token
// storage, expiry checking, and the polling manager that keeps now-playing
// state fresh for subscribing surfaces.
package session

import "time"

// DefaultExpiryBuffer is the safety margin subtracted from the token expiry
// timestamp, so a request is never fired with a token that expires mid-flight.
const DefaultExpiryBuffer = 5 * time.Minute

// Session is an authenticated link to a Spotify account.
//
// All three fields are written and cleared together; a partially populated
// record is treated as no session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ValidAt reports whether the session is usable at the given instant,
// applying the expiry buffer. Deterministic: no clock reads, no side effects.
//
// A session missing its access token or expiry is never valid. The boundary
// instant (now == expiresAt - buffer) is already invalid.
func (s *Session) ValidAt(now time.Time, buffer time.Duration) bool {
	if s == nil {
		return false
	}
	if s.AccessToken == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(s.ExpiresAt.Add(-buffer))
}

// Valid reports whether the session is usable right now with the default buffer.
func (s *Session) Valid() bool {
	return s.ValidAt(time.Now(), DefaultExpiryBuffer)
}

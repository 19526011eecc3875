package session

import (
	"testing"
	"time"
)

func TestSessionValidAt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := base.Add(time.Hour)

	tests := []struct {
		name    string
		session *Session
		now     time.Time
		want    bool
	}{
		{
			name:    "nil session",
			session: nil,
			now:     base,
			want:    false,
		},
		{
			name:    "missing access token",
			session: &Session{ExpiresAt: expiresAt},
			now:     base,
			want:    false,
		},
		{
			name:    "missing expiry",
			session: &Session{AccessToken: "tok"},
			now:     base,
			want:    false,
		},
		{
			name:    "well before expiry",
			session: &Session{AccessToken: "tok", ExpiresAt: expiresAt},
			now:     base,
			want:    true,
		},
		{
			name:    "just inside the buffer",
			session: &Session{AccessToken: "tok", ExpiresAt: expiresAt},
			now:     expiresAt.Add(-DefaultExpiryBuffer - time.Millisecond),
			want:    true,
		},
		{
			name:    "exactly at the buffer boundary",
			session: &Session{AccessToken: "tok", ExpiresAt: expiresAt},
			now:     expiresAt.Add(-DefaultExpiryBuffer),
			want:    false,
		},
		{
			name:    "past expiry",
			session: &Session{AccessToken: "tok", ExpiresAt: expiresAt},
			now:     expiresAt.Add(time.Minute),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.ValidAt(tt.now, DefaultExpiryBuffer); got != tt.want {
				t.Errorf("ValidAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestSessionValidAtZeroBuffer(t *testing.T) {
	expiresAt := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	session := &Session{AccessToken: "tok", ExpiresAt: expiresAt}

	if !session.ValidAt(expiresAt.Add(-time.Second), 0) {
		t.Error("expected valid one second before expiry with zero buffer")
	}
	if session.ValidAt(expiresAt, 0) {
		t.Error("expected invalid at the expiry instant")
	}
}

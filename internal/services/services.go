// package services implements HTTP clients for the Spotify Web API and the lyrics backend
package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/lyrix/internal/shared"
)

// DefaultTimeout bounds every outbound request so a hung call can't freeze
// a polling surface's cadence.
const DefaultTimeout = 10 * time.Second

// APIError is returned when a Spotify Web API call completes with a non-2xx status.
type APIError struct {
	Status   int
	Endpoint string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d (%s)", e.Status, e.Endpoint)
}

// Unauthorized reports whether the error means the session is no longer usable.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// ExchangeError is returned when the authorization code exchange fails.
//
// Network failure, non-2xx status, and application-level rejection collapse
// into this single outward kind; Detail preserves the distinction for logs.
type ExchangeError struct {
	Status int    // HTTP status, 0 for transport failures
	Detail string // internal diagnostic, not for user display
}

func (e *ExchangeError) Error() string {
	return shared.ErrAuthFailed.Error()
}

// Is makes errors.Is(err, shared.ErrAuthFailed) hold for exchange failures.
func (e *ExchangeError) Is(target error) bool {
	return target == shared.ErrAuthFailed
}

// Diagnostic returns the internal failure detail for logging.
func (e *ExchangeError) Diagnostic() string {
	if e.Status > 0 {
		return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return e.Detail
}

// newHTTPClient returns the given client, or a default one with a bounded timeout.
func newHTTPClient(client *http.Client) *http.Client {
	if client == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return client
}

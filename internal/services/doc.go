// Package services implements thin HTTP clients for the two external collaborators:
// the Spotify Web API and the lyrics/meaning backend.
//
// # Spotify Implementation
//
// [SpotifyService] issues authenticated GETs with a bearer token supplied per
// call. It does not own the token or mutate the session store; callers inspect
// [*APIError] with status 401 and react by clearing the session.
//
// A 204 from the currently-playing endpoint is the provider's signal for
// "nothing is playing" and maps to (nil, nil), not an error.
//
// Millisecond timestamps and durations are passed through unchanged.
//
// # Exchange Implementation
//
// [ExchangeService] swaps an authorization code for tokens via the backend's
// exchange endpoint. Transport failures, non-2xx statuses, and application
// level rejections (success flag false) all surface as one outward error kind,
// [*ExchangeError]; callers only need to know that authentication could not
// complete. The diagnostic detail stays on the error for debugging. Exchanges
// are never retried: authorization codes are single-use upstream.
//
// # Lyrics Backend Implementation
//
// [LyricsService] wraps the backend's /api/lyrics, /api/lyrics/meaning, and
// /api/health endpoints. Every response uses a {success, data, error}
// envelope.
//
// # Error Handling
//
// Services use typed errors plus sentinels from the shared package:
//   - [*APIError] : Spotify returned a non-2xx status
//   - [*ExchangeError] : code exchange failed (wraps [shared.ErrAuthFailed])
//   - [shared.ErrServiceUnavailable] : transport-level failure, connectivity message
//   - [shared.ErrAPIRequest] : backend returned a non-2xx status or success:false
package services

// Package server provides HTTP routing and the OAuth callback handler for the
// connect flow.
//
// # Router Infrastructure
//
// The [Router] interface defines route registration for [Handler] implementations.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally.
//
// # OAuth Callback Handler
//
// [CallbackHandler] receives the redirect from Spotify's authorize page,
// validates the state parameter (CSRF protection), and forwards the
// authorization code through a channel. It does NOT exchange the code itself:
// the exchange goes through the lyrics backend, which holds the client secret.
//
// The handler accepts exactly one callback. Authorization codes are single-use
// upstream, so a second hit (browser refresh, replay) is rejected before any
// exchange attempt can burn the flow.
//
// # Current Usage
//
// When the user runs `lyrix spotify connect`, a temporary HTTP server starts
// on the configured host/port, handles one callback, and shuts down after the
// code is received.
package server

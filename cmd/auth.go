package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/lyrix/internal/server"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// connectTimeout bounds how long the connect flow waits for the browser redirect.
const connectTimeout = 2 * time.Minute

// SpotifyConnect performs the authorization code flow for Spotify.
//
// Starts a local HTTP server for the redirect, opens the browser for user
// authorization, and sends the captured code to the backend for exchange.
// The client secret never touches this machine.
func (r *Runner) SpotifyConnect(ctx context.Context, cmd *cli.Command) error {
	clientID := r.config.Credentials.Spotify.ClientID
	redirectURI := r.config.Credentials.Spotify.RedirectURI
	if clientID == "" || redirectURI == "" {
		return fmt.Errorf("%w: Spotify client_id and redirect_uri must be set in config.toml", shared.ErrMissingCredentials)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	handler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := services.AuthCodeURL(clientID, redirectURI, state)
	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n\n%s\n", authURL)
	} else {
		r.writePlain("Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open this URL in your browser:\n\n%s\n", authURL)
		}
	}

	var code string
	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}
		code = result.Code
	case err := <-serverErr:
		return fmt.Errorf("callback server failed: %w", err)
	case <-time.After(connectTimeout):
		return fmt.Errorf("%w: no authorization callback received", shared.ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	r.logger.Info("authorization code received, exchanging for tokens")

	grant, err := r.exchange.Exchange(ctx, code, redirectURI)
	if err != nil {
		var exchErr *services.ExchangeError
		if errors.As(err, &exchErr) {
			r.logger.Error("token exchange failed", "detail", exchErr.Diagnostic())
		}
		return err
	}

	sess, err := r.store.Save(*grant)
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	r.writePlainln("✓ Spotify connected")
	r.writePlain("Session valid until %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))
	r.writePlain("\nYou can now use: lyrix spotify now\n")

	return nil
}

// SpotifyDisconnect clears the stored session.
func (r *Runner) SpotifyDisconnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return r.writePlain("✓ Disconnected from Spotify\n")
}

// SpotifyStatus reports the session state and, when connected, the account name.
func (r *Runner) SpotifyStatus(ctx context.Context, cmd *cli.Command) error {
	sess := r.store.Load()
	if sess == nil {
		r.writePlain("✗ Not connected\n")
		return r.writePlain("Run `lyrix spotify connect` to authorize\n")
	}

	if !sess.ValidAt(time.Now(), r.config.Session.ExpiryBuffer()) {
		r.writePlain("✗ Session expired\n")
		return r.writePlain("Run `lyrix spotify connect` to reauthorize\n")
	}

	r.writePlain("✓ Connected\n")
	r.writePlain("Session valid until %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))

	requestCtx, cancel := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancel()

	profile, err := r.spotify.Profile(requestCtx, sess.AccessToken)
	if err != nil {
		r.logger.Warn("profile fetch failed", "error", err)
		return nil
	}

	return r.writePlain("Signed in as %s\n", profile.DisplayName)
}

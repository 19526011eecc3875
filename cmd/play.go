package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/session"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// validSession loads the stored session and checks it against the expiry buffer.
func (r *Runner) validSession() (*session.Session, error) {
	sess := r.store.Load()
	if sess == nil {
		return nil, fmt.Errorf("%w: run `lyrix spotify connect` first", shared.ErrNotAuthenticated)
	}
	if !sess.ValidAt(time.Now(), r.config.Session.ExpiryBuffer()) {
		return nil, fmt.Errorf("%w: run `lyrix spotify connect` to reauthorize", shared.ErrTokenExpired)
	}
	return sess, nil
}

// SpotifyNow shows the currently playing track.
func (r *Runner) SpotifyNow(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.validSession()
	if err != nil {
		return err
	}

	requestCtx, cancel := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancel()

	playing, err := r.spotify.CurrentlyPlaying(requestCtx, sess.AccessToken)
	if err != nil {
		return r.handleSpotifyError(err)
	}

	track := services.NormalizeTrack(playing)
	if track == nil {
		return r.writePlain("Nothing playing right now\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, true)
	}

	state := "▶"
	if !track.IsPlaying {
		state = "⏸"
	}

	r.writePlain("%s %s\n", state, track.Name)
	r.writePlain("  %s — %s\n", track.Artist, track.Album)
	r.writePlain("  %s / %s\n", formatDuration(track.ProgressMs), formatDuration(track.DurationMs))
	if track.ExternalURL != "" {
		r.writePlain("  %s\n", track.ExternalURL)
	}

	return nil
}

// SpotifyRecent lists recently played tracks.
func (r *Runner) SpotifyRecent(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	sess, err := r.validSession()
	if err != nil {
		return err
	}

	requestCtx, cancel := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancel()

	tracks, err := r.spotify.RecentlyPlayed(requestCtx, sess.AccessToken, int(limit))
	if err != nil {
		return r.handleSpotifyError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		return r.writePlain("No recently played tracks\n")
	}

	r.writePlain("Recently played:\n\n")
	for i, track := range tracks {
		r.writePlain("%d. %s — %s\n", i+1, track.Artist, track.Name)
	}

	return nil
}

// handleSpotifyError clears the session on a 401 so the next command reports
// a clean disconnected state instead of failing the same way.
func (r *Runner) handleSpotifyError(err error) error {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		r.logger.Info("session rejected by Spotify, clearing stored tokens")
		if clearErr := r.store.Clear(); clearErr != nil {
			r.logger.Warn("failed to clear session store", "error", clearErr)
		}
		return fmt.Errorf("%w: run `lyrix spotify connect` to reauthorize", shared.ErrNotAuthenticated)
	}
	return err
}

func formatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

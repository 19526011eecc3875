package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// Status checks backend health and reports session state.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	requestCtx, cancel := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancel()

	health, err := r.lyrics.Health(requestCtx)
	if err != nil {
		r.writePlain("Backend:  ✗ unreachable (%v)\n", err)
	} else {
		r.writePlain("Backend:  ✓ %s\n", health.Status)
	}

	sess := r.store.Load()
	switch {
	case sess == nil:
		r.writePlain("Spotify:  ✗ not connected\n")
	case !sess.ValidAt(time.Now(), r.config.Session.ExpiryBuffer()):
		r.writePlain("Spotify:  ✗ session expired\n")
	default:
		r.writePlain("Spotify:  ✓ connected (valid until %s)\n", sess.ExpiresAt.Local().Format(time.Kitchen))
	}

	return nil
}

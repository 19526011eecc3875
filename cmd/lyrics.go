package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// LyricsGet fetches lyrics for a song named on the command line.
func (r *Runner) LyricsGet(ctx context.Context, cmd *cli.Command) error {
	song := cmd.StringArg("song")
	if song == "" {
		return fmt.Errorf("%w: song name", shared.ErrMissingArgument)
	}
	artist := cmd.String("artist")

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	if cmd.Bool("refresh") {
		if err := r.evictLyrics(song, artist); err != nil {
			return err
		}
	}

	requestCtx, cancel := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancel()

	result, err := engine.Lookup(requestCtx, song, artist, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Lyrics, true)
	}

	r.writePlainHeader(result.Lyrics.Title)
	r.writePlain("%s\n", result.Lyrics.Body)
	r.writePlain("\n%d lines, %d words", result.Lyrics.Lines, result.Lyrics.Words)
	if result.Cached {
		r.writePlain(" (cached)")
	}
	r.writePlain("\n")

	return nil
}

// evictLyrics drops the cached entry for a song so the next lookup refetches.
func (r *Runner) evictLyrics(song, artist string) error {
	songKey := models.SongKey(song, artist)
	cached, err := r.lyricsRepo.GetBySongKey(songKey)
	if err != nil {
		return err
	}
	if cached == nil {
		return nil
	}
	return r.lyricsRepo.Delete(cached.ID())
}

// LyricsMeaning fetches the AI interpretation for a song.
func (r *Runner) LyricsMeaning(ctx context.Context, cmd *cli.Command) error {
	song := cmd.StringArg("song")
	if song == "" {
		return fmt.Errorf("%w: song name", shared.ErrMissingArgument)
	}
	artist := cmd.String("artist")
	instructions := cmd.String("instructions")

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	// Analysis can take a while server-side, so allow double the usual budget.
	requestCtx, cancel := context.WithTimeout(ctx, 2*r.config.Backend.Timeout())
	defer cancel()

	result, err := engine.Meaning(requestCtx, song, artist, instructions, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Meaning, true)
	}

	r.writePlainHeader(fmt.Sprintf("Meaning: %s", song))
	for _, line := range result.Meaning.Lines {
		switch line.Type {
		case "Lyric":
			r.writePlain("\n♪ %s\n", line.Line)
		case "Stanza":
			r.writePlain("\n── %s\n", line.Line)
		default:
			r.writePlain("  %s\n", line.Line)
		}
	}
	if result.Cached {
		r.writePlain("\n(cached)\n")
	}

	return nil
}

// LyricsCurrent fetches lyrics for whatever Spotify is playing right now.
func (r *Runner) LyricsCurrent(ctx context.Context, cmd *cli.Command) error {
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

	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	lookupCtx, cancelLookup := context.WithTimeout(ctx, r.config.Backend.Timeout())
	defer cancelLookup()

	result, err := engine.Lookup(lookupCtx, track.Name, track.Artist, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Lyrics, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s — %s", track.Artist, track.Name))
	r.writePlain("%s\n", result.Lyrics.Body)

	return nil
}

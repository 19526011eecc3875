// package tasks implements cache-first lookup operations over the lyrics backend.
//
// The core abstraction is Engine, which orchestrates lyrics and meaning lookups
// against the local SQLite cache before falling back to the backend service.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/TUI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/repositories"
	"github.com/desertthunder/lyrix/internal/shared"
)

// LyricsClient is the subset of the backend client the engine calls.
type LyricsClient interface {
	Lyrics(ctx context.Context, songName string) (*models.Lyrics, error)
	Meaning(ctx context.Context, lyrics, songID, instructions string) (*models.Meaning, error)
}

// LookupResult pairs the lyrics payload with its cache provenance.
type LookupResult struct {
	Lyrics *models.Lyrics
	Cached bool // true when served from the local cache
}

// MeaningResult pairs the interpretation with its cache provenance.
type MeaningResult struct {
	Meaning *models.Meaning
	Cached  bool // true when served from the local cache
}

// Engine orchestrates cache-first lookups: local SQLite cache, then the
// backend service, writing fresh results back to the cache.
//
// Cache writes are best-effort. A failed write is logged and the fetched
// result still returned, so a broken cache never blocks a lookup.
type Engine struct {
	lyricsRepo  *repositories.LyricsRepository
	meaningRepo *repositories.MeaningRepository
	historyRepo *repositories.HistoryRepository
	client      LyricsClient
	logger      *log.Logger
	now         func() time.Time
}

// EngineOpts contains the dependencies for creating an Engine.
type EngineOpts struct {
	LyricsRepo  *repositories.LyricsRepository
	MeaningRepo *repositories.MeaningRepository
	HistoryRepo *repositories.HistoryRepository
	Client      LyricsClient
	Logger      *log.Logger
	Clock       func() time.Time
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Engine{
		lyricsRepo:  opts.LyricsRepo,
		meaningRepo: opts.MeaningRepo,
		historyRepo: opts.HistoryRepo,
		client:      opts.Client,
		logger:      opts.Logger,
		now:         opts.Clock,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Lookup fetches lyrics for a track, consulting the local cache first.
func (e *Engine) Lookup(ctx context.Context, name, artist string, progress chan<- ProgressUpdate) (*LookupResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: track name", shared.ErrMissingArgument)
	}
	if e.client == nil {
		return nil, fmt.Errorf("%w: lyrics client not initialized", shared.ErrServiceUnavailable)
	}

	songKey := models.SongKey(name, artist)

	if e.lyricsRepo != nil {
		e.sendProgress(progress, checkCacheUpdate(songKey))
		cached, err := e.lyricsRepo.GetBySongKey(songKey)
		if err != nil {
			e.logger.Warn("lyrics cache read failed", "song_key", songKey, "error", err)
		} else if cached != nil {
			e.sendProgress(progress, cacheHitUpdate(songKey))
			body := cached.Lyrics()
			return &LookupResult{Lyrics: &body, Cached: true}, nil
		}
	}

	songName := name
	if artist != "" {
		songName = name + " " + artist
	}

	e.sendProgress(progress, fetchLyricsUpdate(songName))
	lyrics, err := e.client.Lyrics(ctx, songName)
	if err != nil {
		return nil, err
	}

	if e.lyricsRepo != nil {
		e.sendProgress(progress, saveCacheUpdate(songKey))
		entry := models.NewCachedLyrics(0, songKey, *lyrics)
		if err := e.lyricsRepo.Create(entry); err != nil {
			e.logger.Warn("lyrics cache write failed", "song_key", songKey, "error", err)
		}
	}

	return &LookupResult{Lyrics: lyrics}, nil
}

// Meaning fetches an AI interpretation for a track's lyrics, consulting the
// local cache first. Lyrics are looked up (cache-first) when not provided.
func (e *Engine) Meaning(ctx context.Context, name, artist, instructions string, progress chan<- ProgressUpdate) (*MeaningResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: track name", shared.ErrMissingArgument)
	}
	if e.client == nil {
		return nil, fmt.Errorf("%w: lyrics client not initialized", shared.ErrServiceUnavailable)
	}

	songKey := models.SongKey(name, artist)

	if e.meaningRepo != nil {
		e.sendProgress(progress, checkCacheUpdate(songKey))
		cached, err := e.meaningRepo.GetBySongKey(songKey, instructions)
		if err != nil {
			e.logger.Warn("meaning cache read failed", "song_key", songKey, "error", err)
		} else if cached != nil {
			e.sendProgress(progress, cacheHitUpdate(songKey))
			return &MeaningResult{
				Meaning: &models.Meaning{Lines: cached.Lines(), Cached: true},
				Cached:  true,
			}, nil
		}
	}

	lookup, err := e.Lookup(ctx, name, artist, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchMeaningUpdate(songKey))
	meaning, err := e.client.Meaning(ctx, lookup.Lyrics.Body, songKey, instructions)
	if err != nil {
		return nil, err
	}

	if e.meaningRepo != nil {
		e.sendProgress(progress, saveCacheUpdate(songKey))
		entry := models.NewCachedMeaning(0, songKey, instructions, meaning.Lines)
		if err := e.meaningRepo.Create(entry); err != nil {
			e.logger.Warn("meaning cache write failed", "song_key", songKey, "error", err)
		}
	}

	return &MeaningResult{Meaning: meaning}, nil
}

// Record logs an observed track into play history, skipping consecutive
// duplicates so a song polled for minutes yields one row.
func (e *Engine) Record(track *models.TrackInfo) error {
	if track == nil || track.ID == "" {
		return nil
	}
	if e.historyRepo == nil {
		return nil
	}

	latest, err := e.historyRepo.Latest()
	if err != nil {
		return fmt.Errorf("failed to read play history: %w", err)
	}
	if latest != nil && latest.TrackID() == track.ID {
		return nil
	}

	record := models.NewPlayRecord(0, *track, e.now())
	if err := e.historyRepo.Create(record); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}

	e.logger.Debug("recorded play", "track", track.Name, "artist", track.Artist)
	return nil
}

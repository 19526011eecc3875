package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrix/internal/repositories"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/session"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	store    session.Store
	spotify  *services.SpotifyService
	exchange *services.ExchangeService
	lyrics   *services.LyricsService
	logger   *log.Logger
	output   io.Writer

	db          *sql.DB
	engine      *tasks.Engine
	lyricsRepo  *repositories.LyricsRepository
	meaningRepo *repositories.MeaningRepository
	historyRepo *repositories.HistoryRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Store    session.Store
	Spotify  *services.SpotifyService
	Exchange *services.ExchangeService
	Lyrics   *services.LyricsService
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	client := &http.Client{Timeout: opts.Config.Backend.Timeout()}
	if opts.Spotify == nil {
		opts.Spotify = services.NewSpotifyService("", client)
	}
	if opts.Exchange == nil {
		opts.Exchange = services.NewExchangeService(opts.Config.Backend.BaseURL, client)
	}
	if opts.Lyrics == nil {
		opts.Lyrics = services.NewLyricsService(opts.Config.Backend.BaseURL, client)
	}

	return &Runner{
		config:   opts.Config,
		store:    opts.Store,
		spotify:  opts.Spotify,
		exchange: opts.Exchange,
		lyrics:   opts.Lyrics,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger swaps the Runner's logger (used by the TUI to redirect logs to a file).
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ensureEngine lazily opens the cache database and builds the lookup engine.
// Commands that never touch the cache (connect, status) skip this entirely.
func (r *Runner) ensureEngine() (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	r.db = db
	r.lyricsRepo = repositories.NewLyricsRepository(db)
	r.meaningRepo = repositories.NewMeaningRepository(db)
	r.historyRepo = repositories.NewHistoryRepository(db)
	r.engine = tasks.NewEngine(tasks.EngineOpts{
		LyricsRepo:  r.lyricsRepo,
		MeaningRepo: r.meaningRepo,
		HistoryRepo: r.historyRepo,
		Client:      r.lyrics,
		Logger:      r.logger,
	})

	return r.engine, nil
}

// newManager builds a session manager over the Runner's store and Spotify client.
func (r *Runner) newManager() *session.Manager {
	return session.NewManager(session.ManagerOpts{
		Store:    r.store,
		Client:   r.spotify,
		Logger:   r.logger,
		Interval: r.config.Session.PollInterval(),
		Buffer:   r.config.Session.ExpiryBuffer(),
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

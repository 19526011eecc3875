package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrix/internal/session"
	"github.com/desertthunder/lyrix/internal/shared"
)

// Watcher consumes session manager updates and records play history as the
// observed track changes. It records one play per track transition, not per
// poll, so a song polled for minutes yields one history row.
type Watcher struct {
	manager *session.Manager
	engine  *Engine
	logger  *log.Logger
}

// NewWatcher creates a Watcher bound to the given manager and engine.
func NewWatcher(manager *session.Manager, engine *Engine, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Watcher{
		manager: manager,
		engine:  engine,
		logger:  logger,
	}
}

// Run consumes manager updates until the context is canceled, emitting a
// progress update per recorded play.
//
// History writes are best-effort: a failed insert is logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, progress chan<- ProgressUpdate) {
	updates, unsubscribe := w.manager.Subscribe()
	defer unsubscribe()

	var lastTrackID string

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.State != session.ConnectedPlaying || update.Track == nil {
				if !update.State.Connected() {
					lastTrackID = ""
				}
				continue
			}
			if update.Track.ID == lastTrackID {
				continue
			}
			lastTrackID = update.Track.ID

			if w.engine == nil {
				continue
			}
			if err := w.engine.Record(update.Track); err != nil {
				w.logger.Warn("failed to record play", "track", update.Track.Name, "error", err)
				continue
			}
			if progress != nil {
				select {
				case progress <- recordPlayUpdate(update.Track.Name, update.Track.Artist):
				default:
				}
			}
		}
	}
}

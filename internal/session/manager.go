package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/shared"
	"golang.org/x/time/rate"
)

// State is the manager's connection state.
type State int

const (
	// Disconnected means there is no usable session.
	Disconnected State = iota
	// ConnectedNoTrack means the session is valid but nothing is playing.
	ConnectedNoTrack
	// ConnectedPlaying means the session is valid and a track was returned.
	ConnectedPlaying
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case ConnectedNoTrack:
		return "connected"
	case ConnectedPlaying:
		return "playing"
	default:
		return ""
	}
}

// Connected reports whether the state carries a valid session.
func (s State) Connected() bool {
	return s == ConnectedNoTrack || s == ConnectedPlaying
}

// Update is a snapshot of manager state broadcast to subscribers.
// Track and Profile are replaced wholesale on every poll, never merged.
type Update struct {
	State   State
	Track   *models.TrackInfo
	Profile *models.UserProfile
}

// ResourceClient is the subset of the Spotify client the manager polls.
type ResourceClient interface {
	CurrentlyPlaying(ctx context.Context, accessToken string) (*services.NowPlaying, error)
	Profile(ctx context.Context, accessToken string) (*models.UserProfile, error)
}

// Manager keeps session, profile, and now-playing state fresh without user
// action. It owns a single timer; UI surfaces subscribe to its updates instead
// of running their own polls against the store.
//
// Transitions:
//   - Disconnected → Connected-*: a valid stored session is discovered (on
//     start, on a timer tick, or after Notify following a token save).
//     Entering a connected state fetches the profile once.
//   - Connected-* → Disconnected: the session goes invalid, any Spotify call
//     returns 401 (which also clears the store), or Disconnect is called.
//   - Connected-NoTrack ↔ Connected-Playing: toggled by whether the latest
//     poll returned a track.
type Manager struct {
	store    Store
	client   ResourceClient
	logger   *log.Logger
	interval time.Duration
	buffer   time.Duration
	timeout  time.Duration
	limiter  *rate.Limiter
	now      func() time.Time

	mu      sync.Mutex
	state   State
	track   *models.TrackInfo
	profile *models.UserProfile
	subs    map[int]chan Update
	nextSub int
	cancel  context.CancelFunc
	done    chan struct{}

	// inFlight guards against a slow tick overlapping the next scheduled one,
	// which would fire redundant concurrent requests.
	inFlight atomic.Bool
	kick     chan struct{}
}

// ManagerOpts contains configuration options for creating a Manager.
type ManagerOpts struct {
	Store     Store
	Client    ResourceClient
	Logger    *log.Logger
	Interval  time.Duration // poll cadence, defaults to 10s
	Buffer    time.Duration // expiry buffer, defaults to DefaultExpiryBuffer
	Timeout   time.Duration // per-poll request budget, defaults to 10s
	RateLimit float64       // max Spotify requests per second, 0 disables limiting
	Clock     func() time.Time
}

// NewManager creates a Manager with the provided options.
func NewManager(opts ManagerOpts) *Manager {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultExpiryBuffer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Manager{
		store:    opts.Store,
		client:   opts.Client,
		logger:   opts.Logger,
		interval: opts.Interval,
		buffer:   opts.Buffer,
		timeout:  opts.Timeout,
		limiter:  limiter,
		now:      opts.Clock,
		subs:     make(map[int]chan Update),
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the polling loop. The first check runs immediately so a
// pre-existing valid session is discovered on mount rather than one interval
// later. Calling Start on a running manager is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
}

// Stop cancels the polling loop and waits for the in-flight tick to finish.
// The timer must not outlive the owning surface.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Manager) run(ctx context.Context) {
	m.logger.Debug("session manager started", "interval", m.interval)
	defer m.logger.Debug("session manager stopped")
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		case <-m.kick:
			m.tick(ctx)
		}
	}
}

// Notify prompts an immediate re-check, e.g. after another component saved a
// token grant. Non-blocking; coalesces with a pending notification.
func (m *Manager) Notify() {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Subscribe registers a state listener. The returned channel immediately
// receives the current snapshot, then one Update per poll or transition.
// The cancel function unregisters and closes the channel.
func (m *Manager) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

// Current returns the latest state snapshot.
func (m *Manager) Current() Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Disconnect clears the stored session and transitions to Disconnected.
// Safe to call when already disconnected.
func (m *Manager) Disconnect() error {
	err := m.store.Clear()
	m.setState(Disconnected, nil, nil)
	return err
}

func (m *Manager) tick(ctx context.Context) {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.logger.Debug("previous poll still in flight, skipping tick")
		return
	}
	defer m.inFlight.Store(false)

	sess := m.store.Load()
	if !sess.ValidAt(m.now(), m.buffer) {
		m.setState(Disconnected, nil, nil)
		return
	}

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
	}

	// A hung request must not block polling past its budget.
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	entering := !m.Current().State.Connected()
	profile := m.Current().Profile
	if entering || profile == nil {
		fetched, err := m.client.Profile(ctx, sess.AccessToken)
		if err != nil {
			if m.unauthorized(err) {
				return
			}
			m.logger.Warn("profile fetch failed", "error", err)
		} else {
			profile = fetched
		}
	}

	playing, err := m.client.CurrentlyPlaying(ctx, sess.AccessToken)
	if err != nil {
		if m.unauthorized(err) {
			return
		}
		// Transient failure: keep the current state, the next tick retries.
		m.logger.Warn("now-playing poll failed", "error", err)
		return
	}

	track := services.NormalizeTrack(playing)
	if track != nil {
		m.setState(ConnectedPlaying, track, profile)
	} else {
		m.setState(ConnectedNoTrack, nil, profile)
	}
}

// unauthorized handles a 401: the session is expired upstream, so the store
// is cleared and the manager falls back to Disconnected instead of failing
// on every subsequent poll.
func (m *Manager) unauthorized(err error) bool {
	var apiErr *services.APIError
	if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
		return false
	}

	m.logger.Info("session rejected by Spotify, clearing stored tokens")
	if clearErr := m.store.Clear(); clearErr != nil {
		m.logger.Warn("failed to clear session store", "error", clearErr)
	}
	m.setState(Disconnected, nil, nil)
	return true
}

// setState broadcasts while holding the lock: unsubscribe closes channels
// under the same lock, so a send can never race a close. Sends are
// non-blocking, so holding the lock here cannot stall.
func (m *Manager) setState(state State, track *models.TrackInfo, profile *models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state
	m.track = track
	m.profile = profile
	update := m.snapshotLocked()

	for _, ch := range m.subs {
		select {
		case ch <- update:
		default:
			// Slow subscriber: drop rather than stall the poll loop.
		}
	}
}

func (m *Manager) snapshotLocked() Update {
	return Update{State: m.state, Track: m.track, Profile: m.profile}
}

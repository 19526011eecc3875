package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/session"
	"github.com/desertthunder/lyrix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	NowPlayingView ViewState = iota
	LyricsView
	MeaningView
)

// Model represents the TUI application state.
//
// The now-playing pane mirrors the session manager's state: the model never
// polls Spotify itself, it consumes manager updates via a subscription channel
// pumped back into the Elm loop as messages.
type Model struct {
	ctx     context.Context
	view    ViewState
	manager *session.Manager
	engine  *tasks.Engine

	width  int
	height int

	updates     <-chan session.Update
	unsubscribe func()
	current     session.Update

	lyrics       *models.Lyrics
	lyricsCached bool
	meaning      *models.Meaning
	fetching     bool
	err          error

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, manager *session.Manager, engine *tasks.Engine) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ok

	return &Model{
		ctx:     ctx,
		view:    NowPlayingView,
		manager: manager,
		engine:  engine,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init subscribes to the session manager and starts the spinner.
func (m *Model) Init() tea.Cmd {
	m.updates, m.unsubscribe = m.manager.Subscribe()
	return tea.Batch(m.waitForUpdate(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionUpdateMsg:
		previous := m.current
		m.current = session.Update(msg)

		// Track changed: stale lyrics and meaning no longer apply.
		if trackID(previous.Track) != trackID(m.current.Track) {
			m.lyrics = nil
			m.meaning = nil
			m.err = nil
			if m.view != NowPlayingView {
				m.view = NowPlayingView
			}
		}
		return m, m.waitForUpdate()

	case subscriptionClosedMsg:
		return m, tea.Quit

	case lyricsFetchedMsg:
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			m.view = NowPlayingView
			return m, nil
		}
		m.lyrics = msg.lyrics
		m.lyricsCached = msg.cached
		m.view = LyricsView
		return m, nil

	case meaningFetchedMsg:
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			m.view = NowPlayingView
			return m, nil
		}
		m.meaning = msg.meaning
		m.view = MeaningView
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LyricsView:
		body = m.renderLyrics()
	case MeaningView:
		body = m.renderMeaning()
	default:
		body = m.renderNowPlaying()
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

// Close releases the manager subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit
	case "esc":
		m.view = NowPlayingView
		m.err = nil
		return m, nil
	case "l":
		return m.showLyrics()
	case "m":
		return m.showMeaning()
	case "r":
		m.manager.Notify()
		return m, nil
	}
	return m, nil
}

func (m *Model) showLyrics() (tea.Model, tea.Cmd) {
	track := m.current.Track
	if track == nil || m.fetching {
		return m, nil
	}
	if m.lyrics != nil {
		m.view = LyricsView
		return m, nil
	}

	m.fetching = true
	m.err = nil
	name, artist := track.Name, track.Artist
	return m, func() tea.Msg {
		result, err := m.engine.Lookup(m.ctx, name, artist, nil)
		if err != nil {
			return lyricsFetchedMsg{err: err}
		}
		return lyricsFetchedMsg{lyrics: result.Lyrics, cached: result.Cached}
	}
}

func (m *Model) showMeaning() (tea.Model, tea.Cmd) {
	track := m.current.Track
	if track == nil || m.fetching {
		return m, nil
	}
	if m.meaning != nil {
		m.view = MeaningView
		return m, nil
	}

	m.fetching = true
	m.err = nil
	name, artist := track.Name, track.Artist
	return m, func() tea.Msg {
		result, err := m.engine.Meaning(m.ctx, name, artist, "", nil)
		if err != nil {
			return meaningFetchedMsg{err: err}
		}
		return meaningFetchedMsg{meaning: result.Meaning}
	}
}

// waitForUpdate pumps the next manager update into the Elm loop.
func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return sessionUpdateMsg(update)
	}
}

func (m *Model) renderNowPlaying() string {
	title := styles.title.Render("lyrix")

	var status string
	switch m.current.State {
	case session.ConnectedPlaying:
		track := m.current.Track
		status = fmt.Sprintf(
			"%s\n%s\n%s",
			styles.ok.Render(fmt.Sprintf("♪ %s", track.Name)),
			track.Artist,
			styles.dim.Render(fmt.Sprintf("%s  %s / %s", track.Album, formatMs(track.ProgressMs), formatMs(track.DurationMs))),
		)
	case session.ConnectedNoTrack:
		status = styles.warn.Render("Connected, nothing playing") + "\n" + styles.dim.Render("Start playback in any Spotify client")
	default:
		status = styles.warn.Render("Not connected to Spotify") + "\n" + styles.dim.Render("Run `lyrix spotify connect` first")
	}

	if m.current.Profile != nil && m.current.Profile.DisplayName != "" {
		status += "\n\n" + styles.dim.Render("Signed in as "+m.current.Profile.DisplayName)
	}

	if m.fetching {
		status += fmt.Sprintf("\n\n%s Fetching...", m.spinner.View())
	}
	if m.err != nil {
		status += "\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return fmt.Sprintf("%s\n%s", title, status)
}

func (m *Model) renderLyrics() string {
	if m.lyrics == nil {
		return styles.warn.Render("No lyrics loaded")
	}

	title := styles.title.Render(m.lyrics.Title)
	meta := styles.dim.Render(fmt.Sprintf("%d lines, %d words", m.lyrics.Lines, m.lyrics.Words))
	if m.lyricsCached {
		meta += styles.dim.Render("  (cached)")
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, meta, m.lyrics.Body)
}

func (m *Model) renderMeaning() string {
	if m.meaning == nil {
		return styles.warn.Render("No interpretation loaded")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Meaning"))
	b.WriteString("\n")
	for _, line := range m.meaning.Lines {
		switch line.Type {
		case "Lyric":
			b.WriteString("\n" + styles.ok.Render(line.Line))
		case "Stanza":
			b.WriteString("\n\n" + styles.warn.Render(line.Line))
		default:
			b.WriteString("\n" + line.Line)
		}
	}

	return b.String()
}

func trackID(track *models.TrackInfo) string {
	if track == nil {
		return ""
	}
	return track.ID
}

func formatMs(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

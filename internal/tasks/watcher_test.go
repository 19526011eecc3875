package tasks

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/desertthunder/lyrix/internal/session"
)

// scriptedClient serves a mutable now-playing payload to the session manager.
type scriptedClient struct {
	mu      sync.Mutex
	playing *services.NowPlaying
}

func (c *scriptedClient) set(playing *services.NowPlaying) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = playing
}

func (c *scriptedClient) CurrentlyPlaying(ctx context.Context, accessToken string) (*services.NowPlaying, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing, nil
}

func (c *scriptedClient) Profile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	return &models.UserProfile{DisplayName: "Watcher Test"}, nil
}

func nowPlaying(id, name string) *services.NowPlaying {
	return &services.NowPlaying{
		IsPlaying: true,
		Item: &services.SpotifyTrack{
			ID:      id,
			Name:    name,
			Artists: []services.SpotifyArtist{{Name: "Queen"}},
		},
	}
}

func TestWatcherRecordsOncePerTrack(t *testing.T) {
	store := session.NewMemoryStore()
	if _, err := store.Save(models.TokenGrant{AccessToken: "tok", ExpiresIn: 3600}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	client := &scriptedClient{}
	client.set(nowPlaying("t1", "Bohemian Rhapsody"))

	manager := session.NewManager(session.ManagerOpts{
		Store:    store,
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	engine := testEngine(t, &fakeLyricsClient{})
	watcher := NewWatcher(manager, engine, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := make(chan ProgressUpdate, 8)
	go watcher.Run(ctx, progress)
	manager.Start(ctx)
	defer manager.Stop()

	waitForRecord := func(wantName string) {
		t.Helper()
		deadline := time.After(3 * time.Second)
		for {
			select {
			case update := <-progress:
				if update.Phase == RecordPlay && strings.Contains(update.Message, wantName) {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %s to be recorded", wantName)
			}
		}
	}

	waitForRecord("Bohemian Rhapsody")

	// Several polls of the same track must not produce more rows; switching
	// tracks must.
	time.Sleep(50 * time.Millisecond)
	client.set(nowPlaying("t2", "Don't Stop Me Now"))
	waitForRecord("Don't Stop Me Now")

	records, err := engine.historyRepo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 history rows, got %d", len(records))
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	manager := session.NewManager(session.ManagerOpts{
		Store:    session.NewMemoryStore(),
		Client:   &scriptedClient{},
		Interval: 10 * time.Millisecond,
	})

	watcher := NewWatcher(manager, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx, nil)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

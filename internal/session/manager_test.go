package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/services"
)

// fakeResourceClient scripts poll responses for manager tests.
type fakeResourceClient struct {
	mu           sync.Mutex
	playing      *services.NowPlaying
	playingErr   error
	profile      *models.UserProfile
	profileErr   error
	profileCalls atomic.Int32
	playingCalls atomic.Int32
	block        chan struct{}
}

func (f *fakeResourceClient) set(playing *services.NowPlaying, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = playing
	f.playingErr = err
}

func (f *fakeResourceClient) CurrentlyPlaying(ctx context.Context, accessToken string) (*services.NowPlaying, error) {
	f.playingCalls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing, f.playingErr
}

func (f *fakeResourceClient) Profile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	f.profileCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &models.UserProfile{DisplayName: "Test Listener"}, nil
}

func connectedStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if _, err := store.Save(models.TokenGrant{AccessToken: "tok", ExpiresIn: 3600}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func playingTrack(name string) *services.NowPlaying {
	return &services.NowPlaying{
		IsPlaying: true,
		Item: &services.SpotifyTrack{
			ID:      "track-1",
			Name:    name,
			Artists: []services.SpotifyArtist{{Name: "Daft Punk"}},
			Album:   services.SpotifyAlbum{Name: "Discovery"},
		},
	}
}

// waitForState drains updates until the wanted state arrives or the test times out.
func waitForState(t *testing.T, updates <-chan Update, want State) Update {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case update := <-updates:
			if update.State == want {
				return update
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %v", want)
		}
	}
}

func TestManagerDiscoverSessionOnStart(t *testing.T) {
	client := &fakeResourceClient{}
	client.set(playingTrack("One More Time"), nil)

	manager := NewManager(ManagerOpts{
		Store:    connectedStore(t),
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	update := waitForState(t, updates, ConnectedPlaying)
	if update.Track == nil || update.Track.Name != "One More Time" {
		t.Fatalf("unexpected track: %+v", update.Track)
	}
	if update.Profile == nil || update.Profile.DisplayName != "Test Listener" {
		t.Errorf("expected profile fetched on connect, got %+v", update.Profile)
	}
}

func TestManagerNoSessionStaysDisconnected(t *testing.T) {
	client := &fakeResourceClient{}
	manager := NewManager(ManagerOpts{
		Store:    NewMemoryStore(),
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	manager.Start(context.Background())
	defer manager.Stop()

	time.Sleep(50 * time.Millisecond)

	if got := manager.Current().State; got != Disconnected {
		t.Errorf("expected Disconnected, got %v", got)
	}
	if client.playingCalls.Load() != 0 {
		t.Error("manager must not poll Spotify without a valid session")
	}
}

func TestManagerNothingPlaying(t *testing.T) {
	client := &fakeResourceClient{}
	client.set(nil, nil)

	manager := NewManager(ManagerOpts{
		Store:    connectedStore(t),
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	update := waitForState(t, updates, ConnectedNoTrack)
	if update.Track != nil {
		t.Errorf("expected nil track, got %+v", update.Track)
	}
}

func TestManagerUnauthorizedClearsStore(t *testing.T) {
	store := connectedStore(t)
	client := &fakeResourceClient{}
	client.set(nil, &services.APIError{Status: 401, Endpoint: "/me/player/currently-playing"})

	manager := NewManager(ManagerOpts{
		Store:    store,
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	waitForState(t, updates, Disconnected)

	if store.Load() != nil {
		t.Error("expected store cleared after 401")
	}
}

func TestManagerTransientErrorKeepsState(t *testing.T) {
	client := &fakeResourceClient{}
	client.set(playingTrack("Aerodynamic"), nil)

	manager := NewManager(ManagerOpts{
		Store:    connectedStore(t),
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	waitForState(t, updates, ConnectedPlaying)

	// A 500 must not disconnect or drop the last known track.
	client.set(nil, &services.APIError{Status: 500, Endpoint: "/me/player/currently-playing"})
	time.Sleep(50 * time.Millisecond)

	current := manager.Current()
	if current.State != ConnectedPlaying {
		t.Errorf("expected state preserved through transient failure, got %v", current.State)
	}
	if current.Track == nil || current.Track.Name != "Aerodynamic" {
		t.Errorf("expected last known track preserved, got %+v", current.Track)
	}
}

func TestManagerNotifyTriggersImmediatePoll(t *testing.T) {
	store := NewMemoryStore()
	client := &fakeResourceClient{}
	client.set(playingTrack("Digital Love"), nil)

	manager := NewManager(ManagerOpts{
		Store:    store,
		Client:   client,
		Interval: time.Hour, // only Notify can trigger a poll
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	waitForState(t, updates, Disconnected)

	if _, err := store.Save(models.TokenGrant{AccessToken: "tok", ExpiresIn: 3600}); err != nil {
		t.Fatalf("failed to save grant: %v", err)
	}
	manager.Notify()

	waitForState(t, updates, ConnectedPlaying)
}

func TestManagerDisconnect(t *testing.T) {
	store := connectedStore(t)
	client := &fakeResourceClient{}
	client.set(playingTrack("Veridis Quo"), nil)

	manager := NewManager(ManagerOpts{
		Store:    store,
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	manager.Start(context.Background())
	defer manager.Stop()

	waitForState(t, updates, ConnectedPlaying)

	if err := manager.Disconnect(); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}

	if store.Load() != nil {
		t.Error("expected store cleared after Disconnect")
	}
	if got := manager.Current().State; got != Disconnected {
		t.Errorf("expected Disconnected, got %v", got)
	}
}

func TestManagerOverlapGuard(t *testing.T) {
	client := &fakeResourceClient{block: make(chan struct{})}
	client.set(playingTrack("Harder Better Faster Stronger"), nil)

	manager := NewManager(ManagerOpts{
		Store:    connectedStore(t),
		Client:   client,
		Interval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager.Start(ctx)

	// The first tick blocks inside CurrentlyPlaying; subsequent ticks must be
	// skipped rather than stack concurrent requests.
	time.Sleep(60 * time.Millisecond)
	if calls := client.playingCalls.Load(); calls != 1 {
		t.Errorf("expected exactly one in-flight poll, got %d", calls)
	}

	close(client.block)
	manager.Stop()
}

func TestManagerStartTwiceIsNoOp(t *testing.T) {
	client := &fakeResourceClient{}
	manager := NewManager(ManagerOpts{
		Store:    NewMemoryStore(),
		Client:   client,
		Interval: 10 * time.Millisecond,
	})

	ctx := context.Background()
	manager.Start(ctx)
	manager.Start(ctx)
	manager.Stop()
}

func TestManagerSubscribeReceivesSnapshot(t *testing.T) {
	manager := NewManager(ManagerOpts{
		Store:  NewMemoryStore(),
		Client: &fakeResourceClient{},
	})

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	select {
	case update := <-updates:
		if update.State != Disconnected {
			t.Errorf("expected initial Disconnected snapshot, got %v", update.State)
		}
	case <-time.After(time.Second):
		t.Fatal("expected immediate snapshot on Subscribe")
	}
}

func TestManagerUnsubscribeDuringBroadcast(t *testing.T) {
	manager := NewManager(ManagerOpts{
		Store:  NewMemoryStore(),
		Client: &fakeResourceClient{},
	})

	// Broadcasts race subscriber cancellation: a close landing mid-broadcast
	// must never panic the poll loop.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					manager.setState(ConnectedNoTrack, nil, nil)
				}
			}
		}()
	}

	for i := 0; i < 5000; i++ {
		_, unsubscribe := manager.Subscribe()
		unsubscribe()
	}

	close(stop)
	wg.Wait()
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Disconnected, "disconnected"},
		{ConnectedNoTrack, "connected"},
		{ConnectedPlaying, "playing"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}

	if Disconnected.Connected() {
		t.Error("Disconnected must not report connected")
	}
	if !ConnectedNoTrack.Connected() || !ConnectedPlaying.Connected() {
		t.Error("connected states must report connected")
	}
}

package services

import (
	"testing"
)

func TestNormalizeTrack(t *testing.T) {
	t.Run("nil payload", func(t *testing.T) {
		if got := NormalizeTrack(nil); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("nil item", func(t *testing.T) {
		if got := NormalizeTrack(&NowPlaying{IsPlaying: true}); got != nil {
			t.Errorf("expected nil for missing item, got %+v", got)
		}
	})

	t.Run("full payload", func(t *testing.T) {
		playing := &NowPlaying{
			IsPlaying:  true,
			ProgressMs: 42000,
			Item: &SpotifyTrack{
				ID:   "4VqPOruhp5EdPBeR92t6lQ",
				Name: "Uprising",
				Artists: []SpotifyArtist{
					{Name: "Muse"},
					{Name: "Someone Else"},
				},
				Album: SpotifyAlbum{
					Name:   "The Resistance",
					Images: []SpotifyImage{{URL: "https://img.example/640.jpg", Width: 640}},
				},
				DurationMS:   305000,
				ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/4VqPOruhp5EdPBeR92t6lQ"},
				URI:          "spotify:track:4VqPOruhp5EdPBeR92t6lQ",
			},
		}

		track := NormalizeTrack(playing)
		if track == nil {
			t.Fatal("expected track, got nil")
		}
		if track.Artist != "Muse" {
			t.Errorf("expected first artist, got %q", track.Artist)
		}
		if track.Album != "The Resistance" {
			t.Errorf("unexpected album: %q", track.Album)
		}
		if track.AlbumArtURL != "https://img.example/640.jpg" {
			t.Errorf("unexpected album art: %q", track.AlbumArtURL)
		}
		if track.ExternalURL != "https://open.spotify.com/track/4VqPOruhp5EdPBeR92t6lQ" {
			t.Errorf("unexpected external URL: %q", track.ExternalURL)
		}
		if !track.IsPlaying || track.ProgressMs != 42000 || track.DurationMs != 305000 {
			t.Errorf("playback fields not carried through: %+v", track)
		}
	})

	t.Run("empty artists falls back", func(t *testing.T) {
		playing := &NowPlaying{Item: &SpotifyTrack{ID: "x", Name: "Mystery Song"}}

		track := NormalizeTrack(playing)
		if track == nil {
			t.Fatal("expected track, got nil")
		}
		if track.Artist != "Unknown Artist" {
			t.Errorf("expected fallback artist, got %q", track.Artist)
		}
		if track.Album != "Unknown Album" {
			t.Errorf("expected fallback album, got %q", track.Album)
		}
		if track.AlbumArtURL != "" || track.ExternalURL != "" {
			t.Errorf("expected empty URLs, got %+v", track)
		}
	})

	t.Run("blank artist name falls back", func(t *testing.T) {
		playing := &NowPlaying{Item: &SpotifyTrack{
			ID:      "x",
			Name:    "Untitled",
			Artists: []SpotifyArtist{{Name: ""}},
		}}

		if track := NormalizeTrack(playing); track.Artist != "Unknown Artist" {
			t.Errorf("expected fallback for blank artist name, got %q", track.Artist)
		}
	})

	t.Run("negative durations clamp to zero", func(t *testing.T) {
		playing := &NowPlaying{
			ProgressMs: -5,
			Item:       &SpotifyTrack{ID: "x", Name: "Glitch", DurationMS: -100},
		}

		track := NormalizeTrack(playing)
		if track.DurationMs != 0 || track.ProgressMs != 0 {
			t.Errorf("expected clamped values, got duration=%d progress=%d", track.DurationMs, track.ProgressMs)
		}
	})
}

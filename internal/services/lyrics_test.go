package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/lyrix/internal/shared"
)

func TestLyrics(t *testing.T) {
	t.Run("successful lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/lyrics" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var req struct {
				SongName string `json:"song_name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.SongName != "Karma Police Radiohead" {
				t.Errorf("unexpected song name: %q", req.SongName)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"data": {
					"title": "Karma Police",
					"lyrics": "Karma police, arrest this man",
					"words": 5,
					"lines": 1,
					"characters": 29
				}
			}`))
		}))
		defer server.Close()

		service := NewLyricsService(server.URL, nil)
		lyrics, err := service.Lyrics(context.Background(), "Karma Police Radiohead")
		if err != nil {
			t.Fatalf("Lyrics failed: %v", err)
		}
		if lyrics.Title != "Karma Police" || lyrics.Words != 5 {
			t.Errorf("unexpected lyrics: %+v", lyrics)
		}
	})

	t.Run("empty song name", func(t *testing.T) {
		service := NewLyricsService("http://127.0.0.1:1", nil)
		_, err := service.Lyrics(context.Background(), "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("backend error surfaces detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success": false, "error": "lyrics not found"}`))
		}))
		defer server.Close()

		service := NewLyricsService(server.URL, nil)
		_, err := service.Lyrics(context.Background(), "Nonexistent Song")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		service := NewLyricsService("http://127.0.0.1:1", nil)
		_, err := service.Lyrics(context.Background(), "Anything")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestMeaning(t *testing.T) {
	t.Run("successful analysis", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/lyrics/meaning" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			var req struct {
				Lyrics             string `json:"lyrics"`
				SongID             string `json:"songId"`
				CustomInstructions string `json:"customInstructions"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.SongID != "song-1" || req.CustomInstructions != "focus on imagery" {
				t.Errorf("passthrough fields not carried: %+v", req)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"cached": true,
				"data": {
					"lyricsMeaning": [
						{"LineNo": 1, "Line": "Karma police, arrest this man", "Type": "Meaning"}
					]
				}
			}`))
		}))
		defer server.Close()

		service := NewLyricsService(server.URL, nil)
		meaning, err := service.Meaning(context.Background(), "Karma police, arrest this man", "song-1", "focus on imagery")
		if err != nil {
			t.Fatalf("Meaning failed: %v", err)
		}
		if len(meaning.Lines) != 1 || meaning.Lines[0].LineNo != 1 {
			t.Errorf("unexpected meaning payload: %+v", meaning)
		}
		if !meaning.Cached {
			t.Error("expected cached flag carried from envelope")
		}
	})

	t.Run("empty lyrics", func(t *testing.T) {
		service := NewLyricsService("http://127.0.0.1:1", nil)
		_, err := service.Meaning(context.Background(), "", "", "")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy backend", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/health" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		service := NewLyricsService(server.URL, nil)
		health, err := service.Health(context.Background())
		if err != nil {
			t.Fatalf("Health failed: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("unexpected status: %q", health.Status)
		}
	})

	t.Run("unreachable backend", func(t *testing.T) {
		service := NewLyricsService("http://127.0.0.1:1", nil)
		_, err := service.Health(context.Background())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

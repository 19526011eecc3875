// Lyrics/meaning backend client.
//
// All endpoints respond with a {success, data, error} envelope.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

type lyricsRequest struct {
	SongName string `json:"song_name"`
}

type meaningRequest struct {
	Lyrics             string `json:"lyrics"`
	SongID             string `json:"songId,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Cached  bool            `json:"cached"`
	Data    json.RawMessage `json:"data"`
}

// Health is the backend health report.
type Health struct {
	Status string `json:"status"`
}

// LyricsService wraps the lyrics/meaning backend HTTP API.
type LyricsService struct {
	baseURL    string
	httpClient *http.Client
}

// NewLyricsService creates a backend client rooted at baseURL.
func NewLyricsService(baseURL string, client *http.Client) *LyricsService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &LyricsService{
		baseURL:    baseURL,
		httpClient: newHTTPClient(client),
	}
}

// post sends a JSON body and decodes the success envelope.
func (s *LyricsService) post(ctx context.Context, path string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to connect: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, env.Error)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, env.Error)
		}
		return nil, fmt.Errorf("%w: backend reported failure", shared.ErrAPIRequest)
	}

	return &env, nil
}

// Lyrics looks up lyrics for a song by free-text name ("<track> <artist>" works well).
func (s *LyricsService) Lyrics(ctx context.Context, songName string) (*models.Lyrics, error) {
	if songName == "" {
		return nil, fmt.Errorf("%w: song name", shared.ErrMissingArgument)
	}

	env, err := s.post(ctx, "/api/lyrics", lyricsRequest{SongName: songName})
	if err != nil {
		return nil, err
	}

	var lyrics models.Lyrics
	if err := json.Unmarshal(env.Data, &lyrics); err != nil {
		return nil, fmt.Errorf("failed to decode lyrics payload: %w", err)
	}

	return &lyrics, nil
}

// Meaning requests an AI interpretation for the given lyrics text.
// songID and instructions are optional passthroughs to the backend.
func (s *LyricsService) Meaning(ctx context.Context, lyrics, songID, instructions string) (*models.Meaning, error) {
	if lyrics == "" {
		return nil, fmt.Errorf("%w: lyrics", shared.ErrMissingArgument)
	}

	env, err := s.post(ctx, "/api/lyrics/meaning", meaningRequest{
		Lyrics:             lyrics,
		SongID:             songID,
		CustomInstructions: instructions,
	})
	if err != nil {
		return nil, err
	}

	var meaning models.Meaning
	if err := json.Unmarshal(env.Data, &meaning); err != nil {
		return nil, fmt.Errorf("failed to decode meaning payload: %w", err)
	}
	meaning.Cached = env.Cached

	return &meaning, nil
}

// Health checks the backend health endpoint.
func (s *LyricsService) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to connect: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}

	return &health, nil
}

// Spotify Web API client.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL = "https://accounts.spotify.com/authorize"
	spotifyBaseURL = "https://api.spotify.com/v1"
)

// spotifyScopes are the scopes the original deployment requests.
var spotifyScopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-read-recently-played",
	"user-read-private",
}

// errNoContent signals a 204 from the currently-playing endpoint.
var errNoContent = fmt.Errorf("no content")

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []SpotifyArtist   `json:"artists"`
	Album        SpotifyAlbum      `json:"album"`
	DurationMS   int               `json:"duration_ms"`
	ExternalURLs map[string]string `json:"external_urls"`
	URI          string            `json:"uri"`
}

// NowPlaying represents the currently-playing object.
// Item is a pointer because nothing-playing responses carry a null item.
type NowPlaying struct {
	IsPlaying  bool          `json:"is_playing"`
	ProgressMs int           `json:"progress_ms"`
	Timestamp  int64         `json:"timestamp"`
	Item       *SpotifyTrack `json:"item"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Country     string         `json:"country"`
	Product     string         `json:"product"`
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyPlayedItem represents one entry of the recently-played response.
type SpotifyPlayedItem struct {
	PlayedAt string       `json:"played_at"`
	Track    SpotifyTrack `json:"track"`
}

type recentlyPlayedResponse struct {
	Items []SpotifyPlayedItem `json:"items"`
}

// SpotifyService issues authenticated GETs against the Spotify Web API.
//
// The access token is passed per call; the service never reads or writes the
// session store and performs no unit or timezone conversion on provider values.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a Spotify Web API client.
// An empty baseURL selects the public API; tests point it at a local server.
func NewSpotifyService(baseURL string, client *http.Client) *SpotifyService {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		baseURL:    baseURL,
		httpClient: newHTTPClient(client),
	}
}

// AuthCodeURL builds the Spotify authorization URL for the code flow.
func AuthCodeURL(clientID, redirectURI, state string) string {
	config := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      spotifyScopes,
		Endpoint:    oauth2.Endpoint{AuthURL: spotifyAuthURL},
	}
	return config.AuthCodeURL(state)
}

// doRequest performs an authenticated GET and decodes the JSON response into result.
// Returns errNoContent on 204 and *APIError on any other non-2xx status.
func (s *SpotifyService) doRequest(ctx context.Context, accessToken, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Endpoint: endpoint}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentlyPlaying fetches the raw now-playing payload.
// Returns (nil, nil) when nothing is playing (a 204 response).
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context, accessToken string) (*NowPlaying, error) {
	var playing NowPlaying
	err := s.doRequest(ctx, accessToken, "/me/player/currently-playing", &playing)
	if err == errNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playing, nil
}

// Profile fetches the authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, accessToken, "/me", &user); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{DisplayName: user.DisplayName}
	if len(user.Images) > 0 {
		profile.AvatarURL = user.Images[0].URL
	}

	return profile, nil
}

// RecentlyPlayed fetches up to limit recently played tracks, normalized for display.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]models.TrackInfo, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	var response recentlyPlayedResponse
	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)
	if err := s.doRequest(ctx, accessToken, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackInfo, 0, len(response.Items))
	for _, item := range response.Items {
		tracks = append(tracks, normalizeItem(&item.Track, 0, false))
	}

	return tracks, nil
}

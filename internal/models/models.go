// package models defines the data model for the lyrix lookup service
package models

import (
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include CachedLyrics, CachedMeaning, and PlayRecord.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// TrackInfo is the display-ready shape of a now-playing track.
//
// Each poll replaces the previous value wholesale; no identity persists across polls.
type TrackInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	DurationMs  int    `json:"duration_ms"`
	ProgressMs  int    `json:"progress_ms"`
	IsPlaying   bool   `json:"is_playing"`
	AlbumArtURL string `json:"album_art_url,omitempty"` // empty when the album has no images
	ExternalURL string `json:"external_url,omitempty"`  // empty when Spotify returns no external link
	URI         string `json:"uri"`
}

// UserProfile holds the Spotify account fields the UI displays.
type UserProfile struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// TokenGrant is the token payload returned by the backend exchange endpoint.
type TokenGrant struct {
	AccessToken  string
	ExpiresIn    int // seconds until expiry
	RefreshToken string
}

// Lyrics holds the lyrics text and counts returned by the backend.
type Lyrics struct {
	Title      string `json:"title"`
	Body       string `json:"lyrics"`
	Words      int    `json:"words"`
	Lines      int    `json:"lines"`
	Characters int    `json:"characters"`
}

// MeaningLine is one entry of the AI interpretation. Type is "Lyric",
// "Meaning", or "Stanza" per the backend schema.
type MeaningLine struct {
	LineNo int    `json:"LineNo"`
	Line   string `json:"Line"`
	Type   string `json:"Type"`
}

// Meaning is the AI-generated interpretation for one song's lyrics.
type Meaning struct {
	Lines  []MeaningLine `json:"lyricsMeaning"`
	Cached bool          `json:"-"`
}

// SongKey normalizes a track name and artist into the cache lookup key
// used for lyrics and meanings.
func SongKey(name, artist string) string {
	key := strings.TrimSpace(name)
	if artist != "" {
		key += " " + strings.TrimSpace(artist)
	}
	return strings.ToLower(strings.Join(strings.Fields(key), " "))
}

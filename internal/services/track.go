package services

import "github.com/desertthunder/lyrix/internal/models"

const unknownArtist = "Unknown Artist"
const unknownAlbum = "Unknown Album"

// NormalizeTrack maps a raw now-playing payload into a display-ready record.
//
// Total function: a nil payload or missing item yields nil, and malformed or
// partial payloads degrade to safe defaults instead of erroring. Now-playing
// data is best-effort and transient, so "no data" is never an application error.
func NormalizeTrack(playing *NowPlaying) *models.TrackInfo {
	if playing == nil || playing.Item == nil {
		return nil
	}

	track := normalizeItem(playing.Item, playing.ProgressMs, playing.IsPlaying)
	return &track
}

// normalizeItem shapes one track object, applying display fallbacks.
func normalizeItem(item *SpotifyTrack, progressMs int, isPlaying bool) models.TrackInfo {
	info := models.TrackInfo{
		ID:         item.ID,
		Name:       item.Name,
		Artist:     unknownArtist,
		Album:      unknownAlbum,
		DurationMs: item.DurationMS,
		ProgressMs: progressMs,
		IsPlaying:  isPlaying,
		URI:        item.URI,
	}

	if len(item.Artists) > 0 && item.Artists[0].Name != "" {
		info.Artist = item.Artists[0].Name
	}
	if item.Album.Name != "" {
		info.Album = item.Album.Name
	}
	if len(item.Album.Images) > 0 {
		info.AlbumArtURL = item.Album.Images[0].URL
	}
	if url, ok := item.ExternalURLs["spotify"]; ok {
		info.ExternalURL = url
	}

	if info.DurationMs < 0 {
		info.DurationMs = 0
	}
	if info.ProgressMs < 0 {
		info.ProgressMs = 0
	}

	return info
}

// Package models defines domain entities and persistence interfaces for the lyrix lookup service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [TrackInfo] : Display-ready now-playing track, produced fresh on every poll
//   - [UserProfile] : Spotify account display name and avatar
//   - [Lyrics] : Lyrics text plus word/line/character counts from the backend
//   - [Meaning] : AI-generated line-by-line interpretation of lyrics
//   - [TokenGrant] : Access/refresh token pair returned by the exchange endpoint
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [CachedLyrics] : Lyrics fetched from the backend, keyed by song
//   - [CachedMeaning] : Cached interpretations, keyed by song and instructions
//   - [PlayRecord] : Tracks observed by the now-playing poller
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
package models

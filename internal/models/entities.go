package models

import (
	"fmt"
	"time"
)

// entity carries the lifecycle fields shared by all persisted models.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func (e *entity) ID() string            { return e.id }
func (e *entity) Sequence() int         { return e.sequence }
func (e *entity) CreatedAt() time.Time  { return e.createdAt }
func (e *entity) UpdatedAt() time.Time  { return e.updatedAt }
func (e *entity) DeletedAt() *time.Time { return e.deletedAt }

// SetID assigns the generated identifier. Called by repositories on Create.
func (e *entity) SetID(id string) { e.id = id }

// SetSequence assigns the per-table sequence number. Called by repositories on Create.
func (e *entity) SetSequence(seq int) { e.sequence = seq }

// SetTimestamps restores lifecycle fields when scanning rows from the database.
func (e *entity) SetTimestamps(createdAt, updatedAt time.Time, deletedAt *time.Time) {
	e.createdAt = createdAt
	e.updatedAt = updatedAt
	e.deletedAt = deletedAt
}

// Touch advances the updated timestamp.
func (e *entity) Touch() { e.updatedAt = time.Now() }

func newEntity(sequence int) entity {
	now := time.Now()
	return entity{sequence: sequence, createdAt: now, updatedAt: now}
}

// CachedLyrics is a backend lyrics response persisted in the local cache.
type CachedLyrics struct {
	entity
	songKey string
	lyrics  Lyrics
}

// NewCachedLyrics creates a CachedLyrics entity for the given song key.
func NewCachedLyrics(sequence int, songKey string, lyrics Lyrics) *CachedLyrics {
	return &CachedLyrics{
		entity:  newEntity(sequence),
		songKey: songKey,
		lyrics:  lyrics,
	}
}

func (l *CachedLyrics) SongKey() string { return l.songKey }
func (l *CachedLyrics) Lyrics() Lyrics  { return l.lyrics }

func (l *CachedLyrics) Validate() error {
	if l.songKey == "" {
		return fmt.Errorf("cached lyrics require a song key")
	}
	if l.lyrics.Body == "" {
		return fmt.Errorf("cached lyrics require a body")
	}
	return nil
}

// CachedMeaning is an AI interpretation persisted in the local cache.
//
// Instructions participate in the cache key: the same song analyzed with
// different custom instructions yields distinct rows.
type CachedMeaning struct {
	entity
	songKey      string
	instructions string
	lines        []MeaningLine
}

// NewCachedMeaning creates a CachedMeaning entity for the given song key and instructions.
func NewCachedMeaning(sequence int, songKey, instructions string, lines []MeaningLine) *CachedMeaning {
	return &CachedMeaning{
		entity:       newEntity(sequence),
		songKey:      songKey,
		instructions: instructions,
		lines:        lines,
	}
}

func (m *CachedMeaning) SongKey() string      { return m.songKey }
func (m *CachedMeaning) Instructions() string { return m.instructions }
func (m *CachedMeaning) Lines() []MeaningLine { return m.lines }

func (m *CachedMeaning) Validate() error {
	if m.songKey == "" {
		return fmt.Errorf("cached meaning requires a song key")
	}
	if len(m.lines) == 0 {
		return fmt.Errorf("cached meaning requires at least one line")
	}
	return nil
}

// PlayRecord is a track observed by the now-playing poller.
type PlayRecord struct {
	entity
	trackID    string
	name       string
	artist     string
	album      string
	uri        string
	observedAt time.Time
}

// NewPlayRecord creates a PlayRecord from a normalized track.
func NewPlayRecord(sequence int, track TrackInfo, observedAt time.Time) *PlayRecord {
	return &PlayRecord{
		entity:     newEntity(sequence),
		trackID:    track.ID,
		name:       track.Name,
		artist:     track.Artist,
		album:      track.Album,
		uri:        track.URI,
		observedAt: observedAt,
	}
}

func (p *PlayRecord) TrackID() string       { return p.trackID }
func (p *PlayRecord) Name() string          { return p.name }
func (p *PlayRecord) Artist() string        { return p.artist }
func (p *PlayRecord) Album() string         { return p.album }
func (p *PlayRecord) URI() string           { return p.uri }
func (p *PlayRecord) ObservedAt() time.Time { return p.observedAt }

// SetFields restores column values when scanning rows from the database.
func (p *PlayRecord) SetFields(trackID, name, artist, album, uri string, observedAt time.Time) {
	p.trackID = trackID
	p.name = name
	p.artist = artist
	p.album = album
	p.uri = uri
	p.observedAt = observedAt
}

func (p *PlayRecord) Validate() error {
	if p.trackID == "" {
		return fmt.Errorf("play record requires a track ID")
	}
	if p.name == "" {
		return fmt.Errorf("play record requires a track name")
	}
	return nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// LyricsRepository persists cached lyrics lookups.
type LyricsRepository struct {
	db *sql.DB
}

// NewLyricsRepository creates a new LyricsRepository with the given database connection
func NewLyricsRepository(db *sql.DB) *LyricsRepository {
	return &LyricsRepository{db: db}
}

// Create inserts a new [models.CachedLyrics] into the database with generated ID and sequence
func (r *LyricsRepository) Create(lyrics *models.CachedLyrics) error {
	sequence, err := NextSequence(r.db, "lyrics")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	lyrics.SetID(shared.GenerateID())
	lyrics.SetSequence(sequence)

	if err := lyrics.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO lyrics (id, sequence, song_key, title, body, words, line_count, characters, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	body := lyrics.Lyrics()
	_, err = r.db.Exec(query,
		lyrics.ID(),
		lyrics.Sequence(),
		lyrics.SongKey(),
		body.Title,
		body.Body,
		body.Words,
		body.Lines,
		body.Characters,
		lyrics.CreatedAt(),
		lyrics.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lyrics: %w", err)
	}

	return nil
}

// Get retrieves cached lyrics by ID, excluding soft-deleted rows
func (r *LyricsRepository) Get(id string) (*models.CachedLyrics, error) {
	query := `
		SELECT id, sequence, song_key, title, body, words, line_count, characters, created_at, updated_at, deleted_at
		FROM lyrics
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySongKey retrieves cached lyrics for a normalized song key.
// Returns (nil, nil) on a cache miss.
func (r *LyricsRepository) GetBySongKey(songKey string) (*models.CachedLyrics, error) {
	query := `
		SELECT id, sequence, song_key, title, body, words, line_count, characters, created_at, updated_at, deleted_at
		FROM lyrics
		WHERE song_key = ? AND deleted_at IS NULL
	`

	lyrics, err := r.scanOne(r.db.QueryRow(query, songKey))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lyrics, err
}

// List retrieves cached lyrics ordered by recency.
func (r *LyricsRepository) List(limit int) ([]*models.CachedLyrics, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, sequence, song_key, title, body, words, line_count, characters, created_at, updated_at, deleted_at
		FROM lyrics
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyrics: %w", err)
	}
	defer rows.Close()

	var results []*models.CachedLyrics
	for rows.Next() {
		lyrics, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, lyrics)
	}

	return results, rows.Err()
}

// Delete soft-deletes cached lyrics by ID.
func (r *LyricsRepository) Delete(id string) error {
	_, err := r.db.Exec("UPDATE lyrics SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete lyrics: %w", err)
	}
	return nil
}

// Purge soft-deletes every cached lyrics row. Returns the number of rows evicted.
func (r *LyricsRepository) Purge() (int, error) {
	result, err := r.db.Exec("UPDATE lyrics SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge lyrics: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged lyrics: %w", err)
	}

	return int(count), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *LyricsRepository) scanOne(row *sql.Row) (*models.CachedLyrics, error) {
	return r.scanRow(row)
}

func (r *LyricsRepository) scanRow(row rowScanner) (*models.CachedLyrics, error) {
	var (
		id, songKey          string
		sequence             int
		body                 models.Lyrics
		createdAt, updatedAt time.Time
		deletedAt            *time.Time
	)

	err := row.Scan(&id, &sequence, &songKey, &body.Title, &body.Body, &body.Words, &body.Lines, &body.Characters, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lyrics row: %w", err)
	}

	lyrics := models.NewCachedLyrics(sequence, songKey, body)
	lyrics.SetID(id)
	lyrics.SetTimestamps(createdAt, updatedAt, deletedAt)

	return lyrics, nil
}

package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// MeaningRepository persists cached AI interpretations.
//
// Rows are keyed by (song_key, instructions): re-analyzing a song with
// different custom instructions produces a distinct cache entry.
type MeaningRepository struct {
	db *sql.DB
}

// NewMeaningRepository creates a new MeaningRepository with the given database connection
func NewMeaningRepository(db *sql.DB) *MeaningRepository {
	return &MeaningRepository{db: db}
}

// Create inserts a new [models.CachedMeaning] with generated ID and sequence.
// The interpretation lines are stored as a JSON payload.
func (r *MeaningRepository) Create(meaning *models.CachedMeaning) error {
	sequence, err := NextSequence(r.db, "meanings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	meaning.SetID(shared.GenerateID())
	meaning.SetSequence(sequence)

	if err := meaning.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := json.Marshal(meaning.Lines())
	if err != nil {
		return fmt.Errorf("failed to encode meaning payload: %w", err)
	}

	query := `
		INSERT INTO meanings (id, sequence, song_key, instructions, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		meaning.ID(),
		meaning.Sequence(),
		meaning.SongKey(),
		meaning.Instructions(),
		string(payload),
		meaning.CreatedAt(),
		meaning.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meaning: %w", err)
	}

	return nil
}

// GetBySongKey retrieves a cached interpretation for a song key and instructions pair.
// Returns (nil, nil) on a cache miss.
func (r *MeaningRepository) GetBySongKey(songKey, instructions string) (*models.CachedMeaning, error) {
	query := `
		SELECT id, sequence, song_key, instructions, payload, created_at, updated_at, deleted_at
		FROM meanings
		WHERE song_key = ? AND instructions = ? AND deleted_at IS NULL
	`

	var (
		id, key, instr, payload string
		sequence                int
		createdAt, updatedAt    time.Time
		deletedAt               *time.Time
	)

	err := r.db.QueryRow(query, songKey, instructions).
		Scan(&id, &sequence, &key, &instr, &payload, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan meaning row: %w", err)
	}

	var lines []models.MeaningLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode meaning payload: %w", err)
	}

	meaning := models.NewCachedMeaning(sequence, key, instr, lines)
	meaning.SetID(id)
	meaning.SetTimestamps(createdAt, updatedAt, deletedAt)

	return meaning, nil
}

// Purge soft-deletes every cached meaning row. Returns the number of rows evicted.
func (r *MeaningRepository) Purge() (int, error) {
	result, err := r.db.Exec("UPDATE meanings SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge meanings: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged meanings: %w", err)
	}

	return int(count), nil
}

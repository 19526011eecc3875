package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/shared"
)

// HistoryRepository persists tracks observed by the now-playing poller.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new [models.PlayRecord] with generated ID and sequence.
func (r *HistoryRepository) Create(record *models.PlayRecord) error {
	sequence, err := NextSequence(r.db, "history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO history (id, sequence, track_id, name, artist, album, uri, observed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.TrackID(),
		record.Name(),
		record.Artist(),
		record.Album(),
		record.URI(),
		record.ObservedAt(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert play record: %w", err)
	}

	return nil
}

// Latest returns the most recently observed play record, or (nil, nil) when
// the history is empty.
func (r *HistoryRepository) Latest() (*models.PlayRecord, error) {
	query := `
		SELECT id, sequence, track_id, name, artist, album, uri, observed_at, created_at, updated_at, deleted_at
		FROM history
		WHERE deleted_at IS NULL
		ORDER BY observed_at DESC
		LIMIT 1
	`

	record, err := r.scanRow(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// ListRecent returns up to limit play records ordered by recency.
func (r *HistoryRepository) ListRecent(limit int) ([]*models.PlayRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, track_id, name, artist, album, uri, observed_at, created_at, updated_at, deleted_at
		FROM history
		WHERE deleted_at IS NULL
		ORDER BY observed_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*models.PlayRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *HistoryRepository) scanRow(row rowScanner) (*models.PlayRecord, error) {
	var (
		id, trackID, name, artist, album, uri string
		sequence                              int
		observedAt, createdAt, updatedAt      time.Time
		deletedAt                             *time.Time
	)

	err := row.Scan(&id, &sequence, &trackID, &name, &artist, &album, &uri, &observedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan play record: %w", err)
	}

	record := models.NewPlayRecord(sequence, models.TrackInfo{}, observedAt)
	record.SetID(id)
	record.SetFields(trackID, name, artist, album, uri, observedAt)
	record.SetTimestamps(createdAt, updatedAt, deletedAt)

	return record, nil
}

// Package repositories implements SQLite persistence for the local lookup cache.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [LyricsRepository] : Cached lyrics keyed by normalized song key
//   - [MeaningRepository] : Cached AI interpretations keyed by song key and instructions
//   - [HistoryRepository] : Tracks observed by the now-playing poller
//
// The cache exists so repeated lookups for the same song (a common pattern
// when the poller sees the same track for minutes at a time) don't hit the
// backend on every request.
package repositories

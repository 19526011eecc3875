package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheList lists cached lyrics entries ordered by recency.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))

	if _, err := r.ensureEngine(); err != nil {
		return err
	}

	entries, err := r.lyricsRepo.List(limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type cacheEntry struct {
			SongKey   string `json:"song_key"`
			Title     string `json:"title"`
			Words     int    `json:"words"`
			UpdatedAt string `json:"updated_at"`
		}
		out := make([]cacheEntry, 0, len(entries))
		for _, entry := range entries {
			out = append(out, cacheEntry{
				SongKey:   entry.SongKey(),
				Title:     entry.Lyrics().Title,
				Words:     entry.Lyrics().Words,
				UpdatedAt: entry.UpdatedAt().Format("2006-01-02 15:04:05"),
			})
		}
		return r.writeJSON(out, true)
	}

	if len(entries) == 0 {
		return r.writePlain("Cache is empty\n")
	}

	r.writePlain("Cached lyrics (%d):\n\n", len(entries))
	for i, entry := range entries {
		r.writePlain("%d. %s (%d words, cached %s)\n",
			i+1, entry.Lyrics().Title, entry.Lyrics().Words,
			entry.UpdatedAt().Format("2006-01-02"))
	}

	return nil
}

// CacheClear evicts all cached lyrics and meanings.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.ensureEngine(); err != nil {
		return err
	}

	lyricsCount, err := r.lyricsRepo.Purge()
	if err != nil {
		return err
	}

	meaningCount, err := r.meaningRepo.Purge()
	if err != nil {
		return err
	}

	r.writePlain("✓ Evicted %d lyrics and %d meanings\n", lyricsCount, meaningCount)

	return nil
}

// CacheHistory shows locally recorded play history.
func (r *Runner) CacheHistory(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))

	if _, err := r.ensureEngine(); err != nil {
		return err
	}

	records, err := r.historyRepo.ListRecent(limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return r.writePlain("No plays recorded yet. Run `lyrix watch` to start recording.\n")
	}

	r.writePlain("Play history (%d):\n\n", len(records))
	for i, record := range records {
		r.writePlain("%d. %s — %s (%s)\n",
			i+1, record.Artist(), record.Name(),
			record.ObservedAt().Local().Format("Jan 2 15:04"))
	}

	return nil
}

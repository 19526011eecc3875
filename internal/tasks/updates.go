package tasks

import "fmt"

// ProgressUpdate represents a progress event during a lookup operation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	CheckCache Phase = iota
	CacheHit
	FetchLyrics
	FetchMeaning
	SaveCache
	RecordPlay
)

func (p Phase) String() string {
	switch p {
	case CheckCache:
		return "check_cache"
	case CacheHit:
		return "cache_hit"
	case FetchLyrics:
		return "fetch_lyrics"
	case FetchMeaning:
		return "fetch_meaning"
	case SaveCache:
		return "save_cache"
	case RecordPlay:
		return "record_play"
	default:
		return ""
	}
}

func checkCacheUpdate(songKey string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckCache,
		Message: fmt.Sprintf("Checking local cache for %s...", songKey),
	}
}

func cacheHitUpdate(songKey string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheHit,
		Message: fmt.Sprintf("Found %s in local cache", songKey),
	}
}

func fetchLyricsUpdate(songName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Message: fmt.Sprintf("Fetching lyrics for %s...", songName),
	}
}

func fetchMeaningUpdate(songKey string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMeaning,
		Message: fmt.Sprintf("Analyzing lyrics for %s...", songKey),
	}
}

func saveCacheUpdate(songKey string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveCache,
		Message: fmt.Sprintf("Caching result for %s", songKey),
	}
}

func recordPlayUpdate(name, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordPlay,
		Message: fmt.Sprintf("Recorded play: %s - %s", artist, name),
	}
}

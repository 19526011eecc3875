package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/lyrix/internal/models"
)

const (
	configDirName   = "lyrix"
	sessionFileName = "session.json"
)

// Store owns the persisted session record. No other component mutates the
// persisted fields directly.
//
// Load never fails: storage unavailability and partial or corrupt records all
// surface as "no session", so calling code needs no special-case handling.
type Store interface {
	// Save computes the expiry from the grant and persists the whole record,
	// overwriting any prior session.
	Save(grant models.TokenGrant) (*Session, error)
	// Load returns the stored session, or nil when there is none.
	Load() *Session
	// Clear removes the session. Idempotent: clearing an empty store is not an error.
	Clear() error
}

// FileStore persists the session as a JSON file, created with 0600 since it
// holds bearer tokens.
//
// Writes replace the whole record; fields are never patched individually, so
// concurrent readers can't observe a torn half-updated session.
type FileStore struct {
	path string
	now  func() time.Time
}

// DefaultFileStore returns a FileStore at the default location:
// ~/.config/lyrix/session.json
func DefaultFileStore() (*FileStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user config dir: %w", err)
	}

	return NewFileStore(filepath.Join(configDir, configDirName, sessionFileName)), nil
}

// NewFileStore creates a FileStore with a custom path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the file path where the session is stored.
func (s *FileStore) Path() string {
	return s.path
}

// SetClock overrides the time source. Tests use this to pin expiry math.
func (s *FileStore) SetClock(now func() time.Time) {
	s.now = now
}

// Save persists the grant, computing ExpiresAt = now + ExpiresIn seconds.
func (s *FileStore) Save(grant models.TokenGrant) (*Session, error) {
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("cannot save a grant without an access token")
	}
	if grant.ExpiresIn <= 0 {
		return nil, fmt.Errorf("cannot save a grant without an expiry")
	}

	session := &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(grant.ExpiresIn) * time.Second),
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}

	return session, nil
}

// Load reads the stored session. Missing file, unreadable file, corrupt JSON,
// and records missing required fields all yield nil.
func (s *FileStore) Load() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}

	if session.AccessToken == "" || session.ExpiresAt.IsZero() {
		return nil
	}

	return &session
}

// Clear removes the session file. Returns nil if it does not exist.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and ephemeral use.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock overrides the time source.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Save(grant models.TokenGrant) (*Session, error) {
	if grant.AccessToken == "" || grant.ExpiresIn <= 0 {
		return nil, fmt.Errorf("cannot save an incomplete grant")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(grant.ExpiresIn) * time.Second),
	}

	copied := *s.session
	return &copied, nil
}

func (s *MemoryStore) Load() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}

	copied := *s.session
	return &copied
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Backend     BackendConfig     `toml:"backend"`
	Session     SessionConfig     `toml:"session"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the Spotify OAuth client settings.
//
// No client secret: the authorization code is exchanged by the lyrics backend,
// which holds the secret server-side.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// BackendConfig contains settings for the lyrics/meaning backend service.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout for backend and Spotify calls.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SessionConfig contains Spotify session lifecycle settings.
type SessionConfig struct {
	Path                string `toml:"path"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	ExpiryBufferMinutes int    `toml:"expiry_buffer_minutes"`
}

// PollInterval returns the now-playing poll cadence. Observed deployments use 5-15s.
func (s SessionConfig) PollInterval() time.Duration {
	if s.PollIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

// ExpiryBuffer returns the safety margin subtracted from the token expiry timestamp.
func (s SessionConfig) ExpiryBuffer() time.Duration {
	if s.ExpiryBufferMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.ExpiryBufferMinutes) * time.Minute
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory is loaded first (if present) so
// LYRIX_* environment variables can fill in values omitted from the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// SaveConfig writes the configuration back to a TOML file.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidArgument)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays LYRIX_* environment variables onto the config.
// Values already set in the TOML file win.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	overlay := func(target *string, key string) {
		if *target == "" {
			if v := os.Getenv(key); v != "" {
				*target = v
			}
		}
	}

	overlay(&c.Credentials.Spotify.ClientID, "LYRIX_SPOTIFY_CLIENT_ID")
	overlay(&c.Credentials.Spotify.RedirectURI, "LYRIX_SPOTIFY_REDIRECT_URI")
	overlay(&c.Backend.BaseURL, "LYRIX_BACKEND_URL")
	overlay(&c.Session.Path, "LYRIX_SESSION_PATH")
	overlay(&c.Database.Path, "LYRIX_DATABASE_PATH")
}

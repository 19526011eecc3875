package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Backend.BaseURL == "" {
		t.Error("expected default backend URL")
	}
	if config.Database.Path == "" {
		t.Error("expected default database path")
	}
	if config.Server.Port == 0 {
		t.Error("expected default server port")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[credentials.spotify]
client_id = "test-client"
redirect_uri = "http://127.0.0.1:3000/callback"

[backend]
base_url = "http://localhost:9000"
timeout_seconds = 5

[session]
poll_interval_seconds = 15
expiry_buffer_minutes = 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Credentials.Spotify.ClientID != "test-client" {
		t.Errorf("unexpected client ID: %q", config.Credentials.Spotify.ClientID)
	}
	if config.Backend.BaseURL != "http://localhost:9000" {
		t.Errorf("unexpected backend URL: %q", config.Backend.BaseURL)
	}
	if config.Backend.Timeout() != 5*time.Second {
		t.Errorf("unexpected timeout: %v", config.Backend.Timeout())
	}
	if config.Session.PollInterval() != 15*time.Second {
		t.Errorf("unexpected poll interval: %v", config.Session.PollInterval())
	}
	if config.Session.ExpiryBuffer() != 3*time.Minute {
		t.Errorf("unexpected expiry buffer: %v", config.Session.ExpiryBuffer())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigDefaults(t *testing.T) {
	var session SessionConfig
	if session.PollInterval() != 10*time.Second {
		t.Errorf("expected 10s default poll interval, got %v", session.PollInterval())
	}
	if session.ExpiryBuffer() != 5*time.Minute {
		t.Errorf("expected 5m default expiry buffer, got %v", session.ExpiryBuffer())
	}

	var backend BackendConfig
	if backend.Timeout() != 10*time.Second {
		t.Errorf("expected 10s default timeout, got %v", backend.Timeout())
	}
}

func TestConfigEnvOverlay(t *testing.T) {
	t.Setenv("LYRIX_SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("LYRIX_BACKEND_URL", "http://env-backend:8000")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
base_url = "http://file-wins:8000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Credentials.Spotify.ClientID != "env-client" {
		t.Errorf("expected env var to fill empty field, got %q", config.Credentials.Spotify.ClientID)
	}
	if config.Backend.BaseURL != "http://file-wins:8000" {
		t.Errorf("expected TOML value to win over env, got %q", config.Backend.BaseURL)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	config := DefaultConfig()
	config.Credentials.Spotify.ClientID = "saved-client"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if reloaded.Credentials.Spotify.ClientID != "saved-client" {
		t.Errorf("round trip lost client ID: %q", reloaded.Credentials.Spotify.ClientID)
	}
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile failed: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("generated config failed to parse: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("ENCORE_SPOTIFY_CLIENTID", "id-from-env")
	t.Setenv("ENCORE_SPOTIFY_CLIENTSECRET", "secret-from-env")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8888" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Server.SessionCookie != "encore_session" {
		t.Errorf("cookie: got %q", cfg.Server.SessionCookie)
	}
	if cfg.Spotify.ClientID != "id-from-env" {
		t.Errorf("client id: got %q", cfg.Spotify.ClientID)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults: got %+v", cfg.Log)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	_, err := Load("")
	if err == nil {
		t.Fatal("missing credentials must fail validation")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("got %v, want a validation error", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":9999\"\nlog:\n  format: console\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("file value not applied: %q", cfg.Server.Addr)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("file value not applied: %q", cfg.Log.Format)
	}
	// Untouched keys keep their defaults.
	if cfg.Storage.DataDir != "data/exclusions" {
		t.Errorf("default lost: %q", cfg.Storage.DataDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	setCredentials(t)
	t.Setenv("ENCORE_SERVER_ADDR", ":7777")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("env must win over file: got %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	setCredentials(t)
	t.Setenv("ENCORE_LOG_LEVEL", "loud")

	if _, err := Load(""); err == nil {
		t.Fatal("unknown log level must fail validation")
	}
}

func TestLoadRejectsBadRedirectURI(t *testing.T) {
	setCredentials(t)
	t.Setenv("ENCORE_SPOTIFY_REDIRECTURI", "not a url")

	if _, err := Load(""); err == nil {
		t.Fatal("malformed redirect URI must fail validation")
	}
}

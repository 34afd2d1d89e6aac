// Package config builds the process-wide configuration once at startup.
// Values layer in order: defaults, an optional YAML file, then environment
// variables with the ENCORE_ prefix. The resulting struct is passed
// explicitly to every component that needs it; nothing reads the
// environment after startup.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every configuration environment variable, e.g.
// ENCORE_SPOTIFY_CLIENTID maps to spotify.clientid.
const envPrefix = "ENCORE_"

// DefaultConfigPaths are searched in order; the first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/encore/config.yaml",
}

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Spotify SpotifyConfig `koanf:"spotify"`
	Storage StorageConfig `koanf:"storage"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	Addr          string `koanf:"addr" validate:"required"`
	SessionCookie string `koanf:"sessioncookie" validate:"required"`
}

type SpotifyConfig struct {
	ClientID     string `koanf:"clientid" validate:"required"`
	ClientSecret string `koanf:"clientsecret" validate:"required"`
	RedirectURI  string `koanf:"redirecturi" validate:"required,url"`
}

type StorageConfig struct {
	// DataDir holds the per-user exclusion files, the only persisted state.
	DataDir string `koanf:"datadir" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8888",
			SessionCookie: "encore_session",
		},
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Storage: StorageConfig{
			DataDir: "data/exclusions",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load assembles and validates the configuration. A missing config file is
// fine; missing credentials are not.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}

	if path == "" {
		for _, candidate := range DefaultConfigPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	App    AppConfig    `toml:"app"`
	About  AboutConfig  `toml:"about"`
	Export ExportConfig `toml:"export"`
}

// AppConfig maps interactive session settings.
type AppConfig struct {
	IdleTimeout *Duration `toml:"idle-timeout"`
	KeepStale   *bool     `toml:"keep-stale"`
	Logo        *string   `toml:"logo"`
	LogLevel    *string   `toml:"log-level"`
}

// AboutConfig maps the About author screen content.
type AboutConfig struct {
	Author  *string `toml:"author"`
	Contact *string `toml:"contact"`
}

// ExportConfig maps export settings.
type ExportConfig struct {
	Dir *string `toml:"dir"`
}

// Duration decodes TOML strings such as "90s" or "2m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

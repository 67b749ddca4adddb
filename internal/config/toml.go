// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Cards   CardsConfig   `toml:"cards"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// CardsConfig maps card-related settings.
type CardsConfig struct {
	MaxItems   *int  `toml:"max-items"`
	AllowRegex *bool `toml:"allow-regex"`
}

// StorageConfig maps database settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// UIConfig maps display settings.
type UIConfig struct {
	Color *bool `toml:"color"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults returns the built-in settings.
func Defaults() model.Config {
	return model.Config{
		MaxItems:   15,
		AllowRegex: true,
		Color:      true,
		DBPath:     DefaultDBPath(),
	}
}

// Apply overlays the values set in the file onto cfg.
func (f FileConfig) Apply(cfg model.Config) model.Config {
	if f.Cards.MaxItems != nil {
		cfg.MaxItems = *f.Cards.MaxItems
	}
	if f.Cards.AllowRegex != nil {
		cfg.AllowRegex = *f.Cards.AllowRegex
	}
	if f.Storage.DB != nil && *f.Storage.DB != "" {
		cfg.DBPath = *f.Storage.DB
	}
	if f.UI.Color != nil {
		cfg.Color = *f.UI.Color
	}
	return cfg
}

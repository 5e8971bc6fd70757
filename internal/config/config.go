// Package config loads engine settings from a TOML file. Every field has
// a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries the tunable engine settings.
type Config struct {
	// History bounds the undo stack depth.
	History HistoryConfig `toml:"history"`
	// Canvas controls placement behavior.
	Canvas CanvasConfig `toml:"canvas"`
	// Theme is the default theme selection applied when a document opens,
	// e.g. mode = "dark".
	Theme map[string]string `toml:"theme"`
	// CatalogPath overrides where the document catalog database lives.
	CatalogPath string `toml:"catalog_path"`
}

// HistoryConfig bounds the history engine.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// CanvasConfig tunes canvas placement.
type CanvasConfig struct {
	DuplicateGap float64 `toml:"duplicate_gap"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		History: HistoryConfig{Limit: 300},
		Canvas:  CanvasConfig{DuplicateGap: 20},
	}
}

// Load reads settings from path, layered over the defaults. A missing
// file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = Default().History.Limit
	}
	if cfg.Canvas.DuplicateGap <= 0 {
		cfg.Canvas.DuplicateGap = Default().Canvas.DuplicateGap
	}
	return cfg, nil
}

// Package config loads the demo application's configuration: built-in
// defaults overlaid with an optional TOML file from the user's config
// directory.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Config is the demo application's configuration tree.
type Config struct {
	Theme string     `toml:"theme"`
	Feed  FeedConfig `toml:"feed"`
	UI    UIConfig   `toml:"ui"`
	Log   LogConfig  `toml:"log"`
}

// FeedConfig tunes the simulated message feed.
type FeedConfig struct {
	// InitialCount is how many messages the feed starts with.
	InitialCount int `toml:"initial_count"`
	// PageSize is how many older messages one history load fetches.
	PageSize int `toml:"page_size"`
	// ArrivalIntervalMS is the mean delay between live messages, in
	// milliseconds. Zero disables live arrivals.
	ArrivalIntervalMS int `toml:"arrival_interval_ms"`
	// HistoryDepth caps how far back history loads can reach.
	HistoryDepth int `toml:"history_depth"`
}

// UIConfig tunes the transcript view.
type UIConfig struct {
	Overscan int `toml:"overscan"`
	// DefaultItemHeight is the row-height estimate used until a
	// message is actually rendered and measured.
	DefaultItemHeight float64 `toml:"default_item_height"`
	FrameIntervalMS   int     `toml:"frame_interval_ms"`
	// TopThreshold is the distance from the top, in rows, at which
	// the view starts loading older history.
	TopThreshold float64 `toml:"top_threshold"`
}

// LogConfig tunes diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme: "default",
		Feed: FeedConfig{
			InitialCount:      200,
			PageSize:          50,
			ArrivalIntervalMS: 1500,
			HistoryDepth:      5000,
		},
		UI: UIConfig{
			Overscan:          4,
			DefaultItemHeight: 1,
			FrameIntervalMS:   16,
			TopThreshold:      10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Loader reads and merges configuration files.
type Loader struct {
	configDir string
	mu        sync.RWMutex
	merged    *Config
}

// NewLoader creates a loader rooted at configDir. An empty configDir
// falls back to ~/.config/virtualdemo.
func NewLoader(configDir string) *Loader {
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config", "virtualdemo")
	}
	return &Loader{configDir: configDir}
}

// Load reads config.toml from the loader's directory, if present, on
// top of the defaults. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := Default()
	path := filepath.Join(l.configDir, "config.toml")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.merged = cfg
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := parse(f, cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.merged = cfg
	return cfg, nil
}

// LoadFile reads one specific configuration file on top of the
// defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := parse(f, cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.mu.Lock()
	l.merged = cfg
	l.mu.Unlock()
	return cfg, nil
}

// LoadString reads configuration from a literal TOML string on top of
// the defaults.
func (l *Loader) LoadString(content string) (*Config, error) {
	cfg := Default()
	if err := parse(strings.NewReader(content), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Current returns the last successfully loaded configuration, or the
// defaults when nothing has been loaded yet.
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.merged == nil {
		return Default()
	}
	return l.merged
}

func parse(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return validate(cfg)
}

func validate(cfg *Config) error {
	if cfg.Feed.InitialCount < 0 {
		return fmt.Errorf("feed.initial_count must not be negative")
	}
	if cfg.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive")
	}
	if cfg.UI.Overscan < 0 {
		return fmt.Errorf("ui.overscan must not be negative")
	}
	if cfg.UI.DefaultItemHeight <= 0 {
		return fmt.Errorf("ui.default_item_height must be positive")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

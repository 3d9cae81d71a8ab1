package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "chiptide"

// DefaultBaseURL is the HVSC mirror assets are fetched from when base_url is unset.
const DefaultBaseURL = "http://swimsuitboys.com/hvsc/"

type Config struct {
	// Remote asset root. Unset means DefaultBaseURL; an empty string means
	// assets are read from MusicDir instead.
	BaseURL *string `koanf:"base_url"`

	CatalogPath  string `koanf:"catalog_path"`  // .db for SQLite, .tsv/.txt for an in-memory listing
	CacheDir     string `koanf:"cache_dir"`     // downloaded assets
	MusicDir     string `koanf:"music_dir"`     // local asset root
	StartupAsset string `koanf:"startup_asset"` // relative path fetched on the first tick
	LogFile      string `koanf:"log_file"`
	Debug        bool   `koanf:"debug"`

	Audio   AudioConfig   `koanf:"audio"`
	UI      UIConfig      `koanf:"ui"`
	Control ControlConfig `koanf:"control"`
}

// AudioConfig holds speaker settings.
type AudioConfig struct {
	SampleRate int `koanf:"sample_rate"` // default: 44100
	BufferMS   int `koanf:"buffer_ms"`   // default: 100
}

// UIConfig holds the grid and tick settings.
type UIConfig struct {
	TickMS int `koanf:"tick_ms"` // default: 20
	Width  int `koanf:"width"`   // grid columns, default: 40
	Height int `koanf:"height"`  // grid rows, default: 25
}

// ControlConfig holds the external command surface settings.
type ControlConfig struct {
	Listen string `koanf:"listen"` // e.g. "127.0.0.1:7865"; empty disables it
}

// Load reads ~/.config/chiptide/config.toml then ./config.toml.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.CatalogPath = expandPath(cfg.CatalogPath)
	cfg.CacheDir = expandPath(cfg.CacheDir)
	cfg.MusicDir = expandPath(cfg.MusicDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.StartupAsset = strings.ReplaceAll(cfg.StartupAsset, "\\", "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/chiptide/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Source returns the fetch root: a URL, or a local directory when base_url
// is set to the empty string.
func (c *Config) Source() string {
	if c.BaseURL == nil {
		return DefaultBaseURL
	}
	if *c.BaseURL != "" {
		return *c.BaseURL
	}
	if c.MusicDir != "" {
		return c.MusicDir
	}
	return "."
}

// GetCatalogPath returns the catalog location, defaulting to the XDG data dir.
func (c *Config) GetCatalogPath() string {
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return filepath.Join(xdg.DataHome, appName, "catalog.db")
}

// IsListing reports whether the catalog is a plain-text listing loaded into memory.
func (c *Config) IsListing() bool {
	switch strings.ToLower(filepath.Ext(c.GetCatalogPath())) {
	case ".tsv", ".txt":
		return true
	}
	return false
}

// GetCacheDir returns the download cache, defaulting to the XDG cache dir.
func (c *Config) GetCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(xdg.CacheHome, appName)
}

// GetLogFile returns the log file path, defaulting to the XDG state dir.
func (c *Config) GetLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio

	if cfg.SampleRate < 8000 || cfg.SampleRate > 192000 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferMS <= 0 || cfg.BufferMS > 1000 {
		cfg.BufferMS = 100
	}

	return cfg
}

// BufferDuration returns the speaker buffer length.
func (a AudioConfig) BufferDuration() time.Duration {
	return time.Duration(a.BufferMS) * time.Millisecond
}

// GetUIConfig returns the UI configuration with defaults applied.
func (c *Config) GetUIConfig() UIConfig {
	cfg := c.UI

	if cfg.TickMS <= 0 {
		cfg.TickMS = 20
	}
	if cfg.Width < 40 {
		cfg.Width = 40
	}
	if cfg.Height < 8 {
		cfg.Height = 25
	}

	return cfg
}

// TickInterval returns the control tick cadence.
func (u UIConfig) TickInterval() time.Duration {
	return time.Duration(u.TickMS) * time.Millisecond
}

// HasControl returns true if the external command surface is enabled.
func (c *Config) HasControl() bool {
	return c.Control.Listen != ""
}

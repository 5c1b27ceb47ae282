// Package config loads and saves the Glimpse configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"glimpse/internal/hotkeys"
	"glimpse/internal/search"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	maxTimingMS              = 5000
	appDirName               = "Glimpse"
	configFileName           = "config.yaml"
	databaseFileName         = "glimpse.db"
)

// Test seams.
var (
	userConfigDirFn = os.UserConfigDir
	userHomeDirFn   = os.UserHomeDir
)

// WindowConfig sizes the overlay window in device-independent pixels.
type WindowConfig struct {
	Width     int `yaml:"width" json:"width"`
	Height    int `yaml:"height" json:"height"`
	MinWidth  int `yaml:"min_width" json:"min_width"`
	MinHeight int `yaml:"min_height" json:"min_height"`
}

// TimingsConfig holds the overlay and focus handoff delays in milliseconds.
type TimingsConfig struct {
	ShowFadeMS           int `yaml:"show_fade_ms" json:"show_fade_ms"`
	HideFadeMS           int `yaml:"hide_fade_ms" json:"hide_fade_ms"`
	FocusDelayMS         int `yaml:"focus_delay_ms" json:"focus_delay_ms"`
	HandoffFocusDelayMS  int `yaml:"handoff_focus_delay_ms" json:"handoff_focus_delay_ms"`
	HandoffRevokeDelayMS int `yaml:"handoff_revoke_delay_ms" json:"handoff_revoke_delay_ms"`
	// FadeAckGraceMS is added to a fade's duration before the animation is
	// considered finished without a frontend acknowledgment.
	FadeAckGraceMS int `yaml:"fade_ack_grace_ms" json:"fade_ack_grace_ms"`
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (t TimingsConfig) ShowFade() time.Duration           { return ms(t.ShowFadeMS) }
func (t TimingsConfig) HideFade() time.Duration           { return ms(t.HideFadeMS) }
func (t TimingsConfig) FocusDelay() time.Duration         { return ms(t.FocusDelayMS) }
func (t TimingsConfig) HandoffFocusDelay() time.Duration  { return ms(t.HandoffFocusDelayMS) }
func (t TimingsConfig) HandoffRevokeDelay() time.Duration { return ms(t.HandoffRevokeDelayMS) }
func (t TimingsConfig) FadeAckGrace() time.Duration       { return ms(t.FadeAckGraceMS) }

// Config is the on-disk configuration.
type Config struct {
	// GlobalHotkey seeds the shortcut when none has been recorded yet.
	GlobalHotkey   string        `yaml:"global_hotkey" json:"global_hotkey"`
	SearchProvider string        `yaml:"search_provider" json:"search_provider"`
	DatabasePath   string        `yaml:"database_path,omitempty" json:"database_path"`
	Window         WindowConfig  `yaml:"window" json:"window"`
	Timings        TimingsConfig `yaml:"timings" json:"timings"`
	LogLevel       string        `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		GlobalHotkey:   hotkeys.DefaultToggle().String(),
		SearchProvider: search.DefaultID,
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			MinWidth:  720,
			MinHeight: 480,
		},
		Timings: TimingsConfig{
			ShowFadeMS:           180,
			HideFadeMS:           140,
			FocusDelayMS:         100,
			HandoffFocusDelayMS:  150,
			HandoffRevokeDelayMS: 500,
			FadeAckGraceMS:       250,
		},
		LogLevel: "info",
	}
}

// DefaultPath returns <user config dir>/Glimpse/config.yaml, falling back
// to ~/.config and then the temp directory.
func DefaultPath() string {
	base, err := userConfigDirFn()
	if err != nil || strings.TrimSpace(base) == "" {
		home, homeErr := userHomeDirFn()
		if homeErr != nil {
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", errors.Join(err, homeErr))
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName, configFileName)
}

// DatabaseFile resolves the store path. An empty DatabasePath puts the
// database next to configPath; a leading ~ is expanded.
func (c Config) DatabaseFile(configPath string) string {
	p := strings.TrimSpace(c.DatabasePath)
	if p == "" {
		return filepath.Join(filepath.Dir(configPath), databaseFileName)
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := userHomeDirFn(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return filepath.Clean(p)
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Hotkey parses GlobalHotkey. Callers get a valid shortcut after Load.
func (c Config) Hotkey() (hotkeys.Shortcut, error) {
	return hotkeys.ParseBinding(c.GlobalHotkey)
}

// Load reads path. A missing or empty file yields defaults. Invalid values
// are replaced with defaults and logged; only unreadable or unparsable
// files return an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// EnsureFile writes the defaults when path does not exist and returns the
// loaded configuration.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
		slog.Info("[config] created default config", "path", path)
	}
	return cfg, nil
}

// Save normalizes cfg and writes it atomically. path must be inside the
// default config directory.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(normalizedPath, raw); err != nil {
		return cfg, err
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", normalizedPath)
	return cfg, nil
}

// applyDefaults replaces invalid or missing values in place.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	cfg.GlobalHotkey = strings.TrimSpace(cfg.GlobalHotkey)
	if cfg.GlobalHotkey == "" {
		cfg.GlobalHotkey = defaults.GlobalHotkey
	} else if s, err := hotkeys.ParseBinding(cfg.GlobalHotkey); err != nil {
		slog.Warn("[WARN-CONFIG] invalid global_hotkey, using default",
			"value", cfg.GlobalHotkey, "default", defaults.GlobalHotkey, "error", err)
		cfg.GlobalHotkey = defaults.GlobalHotkey
	} else {
		cfg.GlobalHotkey = s.String()
	}

	cfg.SearchProvider = strings.ToLower(strings.TrimSpace(cfg.SearchProvider))
	if cfg.SearchProvider == "" {
		cfg.SearchProvider = defaults.SearchProvider
	} else if _, ok := search.Lookup(cfg.SearchProvider); !ok {
		slog.Warn("[WARN-CONFIG] unknown search_provider, using default",
			"value", cfg.SearchProvider, "default", defaults.SearchProvider)
		cfg.SearchProvider = defaults.SearchProvider
	}

	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	applyWindowDefaults(&cfg.Window, defaults.Window)
	applyTimingDefaults(&cfg.Timings, defaults.Timings)

	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "":
		cfg.LogLevel = defaults.LogLevel
	case "debug", "info", "warn", "warning", "error":
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	default:
		slog.Warn("[WARN-CONFIG] unknown log_level, using default", "value", cfg.LogLevel)
		cfg.LogLevel = defaults.LogLevel
	}
}

func applyWindowDefaults(w *WindowConfig, d WindowConfig) {
	positive := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	positive(&w.MinWidth, d.MinWidth)
	positive(&w.MinHeight, d.MinHeight)
	positive(&w.Width, d.Width)
	positive(&w.Height, d.Height)
	if w.Width < w.MinWidth {
		w.Width = w.MinWidth
	}
	if w.Height < w.MinHeight {
		w.Height = w.MinHeight
	}
}

func applyTimingDefaults(t *TimingsConfig, d TimingsConfig) {
	fields := []struct {
		name string
		v    *int
		def  int
	}{
		{"show_fade_ms", &t.ShowFadeMS, d.ShowFadeMS},
		{"hide_fade_ms", &t.HideFadeMS, d.HideFadeMS},
		{"focus_delay_ms", &t.FocusDelayMS, d.FocusDelayMS},
		{"handoff_focus_delay_ms", &t.HandoffFocusDelayMS, d.HandoffFocusDelayMS},
		{"handoff_revoke_delay_ms", &t.HandoffRevokeDelayMS, d.HandoffRevokeDelayMS},
		{"fade_ack_grace_ms", &t.FadeAckGraceMS, d.FadeAckGraceMS},
	}
	for _, f := range fields {
		switch {
		case *f.v <= 0:
			*f.v = f.def
		case *f.v > maxTimingMS:
			slog.Warn("[WARN-CONFIG] timing too large, clamping", "field", f.name, "value", *f.v, "max", maxTimingMS)
			*f.v = maxTimingMS
		}
	}
	if t.HandoffRevokeDelayMS < t.HandoffFocusDelayMS {
		slog.Warn("[WARN-CONFIG] handoff_revoke_delay_ms below handoff_focus_delay_ms, raising it",
			"revoke", t.HandoffRevokeDelayMS, "focus", t.HandoffFocusDelayMS)
		t.HandoffRevokeDelayMS = t.HandoffFocusDelayMS
	}
}

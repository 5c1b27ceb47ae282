package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"glimpse/internal/testutil"
)

// useConfigDir points DefaultPath at a temp directory.
func useConfigDir(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	orig := userConfigDirFn
	userConfigDirFn = func() (string, error) { return base, nil }
	t.Cleanup(func() { userConfigDirFn = orig })
	return DefaultPath()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultPath(t *testing.T) {
	path := useConfigDir(t)
	if filepath.Base(path) != "config.yaml" || filepath.Base(filepath.Dir(path)) != "Glimpse" {
		t.Fatalf("DefaultPath() = %q", path)
	}
}

func TestDefaultPathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	origCfg, origHome := userConfigDirFn, userHomeDirFn
	userConfigDirFn = func() (string, error) { return "", errors.New("unset") }
	userHomeDirFn = func() (string, error) { return home, nil }
	t.Cleanup(func() { userConfigDirFn, userHomeDirFn = origCfg, origHome })

	want := filepath.Join(home, ".config", "Glimpse", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Load(\"\") expected error")
	}
}

func TestLoadParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
global_hotkey: "cmd+option+k"
search_provider: Brave
database_path: /tmp/glimpse-test.db
window:
  width: 900
  height: 600
timings:
  show_fade_ms: 250
  handoff_revoke_delay_ms: 800
log_level: DEBUG
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GlobalHotkey != "Alt+Cmd+K" {
		t.Errorf("GlobalHotkey = %q, want canonical %q", cfg.GlobalHotkey, "Alt+Cmd+K")
	}
	if cfg.SearchProvider != "brave" {
		t.Errorf("SearchProvider = %q, want brave", cfg.SearchProvider)
	}
	if cfg.Window.Width != 900 || cfg.Window.MinWidth != 720 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Timings.ShowFade() != 250*time.Millisecond || cfg.Timings.HideFade() != 140*time.Millisecond {
		t.Errorf("Timings = %+v", cfg.Timings)
	}
	if cfg.Timings.HandoffRevokeDelay() != 800*time.Millisecond {
		t.Errorf("HandoffRevokeDelay() = %v", cfg.Timings.HandoffRevokeDelay())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadReplacesInvalidValues(t *testing.T) {
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelWarn)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
global_hotkey: "K"
search_provider: altavista
window:
  width: 100
  min_width: 800
timings:
  focus_delay_ms: -5
  hide_fade_ms: 99999
  handoff_focus_delay_ms: 400
  handoff_revoke_delay_ms: 200
log_level: verbose
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"global_hotkey", cfg.GlobalHotkey, def.GlobalHotkey},
		{"search_provider", cfg.SearchProvider, def.SearchProvider},
		{"window width raised to min", cfg.Window.Width, 800},
		{"focus delay default", cfg.Timings.FocusDelayMS, def.Timings.FocusDelayMS},
		{"hide fade clamped", cfg.Timings.HideFadeMS, maxTimingMS},
		{"revoke raised to focus delay", cfg.Timings.HandoffRevokeDelayMS, 400},
		{"log level", cfg.LogLevel, def.LogLevel},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	for _, want := range []string{"invalid global_hotkey", "unknown search_provider", "timing too large", "unknown log_level"} {
		if !strings.Contains(logBuf.String(), want) {
			t.Errorf("log missing %q:\n%s", want, logBuf.String())
		}
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "global_hotkey: [unterminated\n")
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Fatal("Load() should return defaults on parse error")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# "+strings.Repeat("x", int(maxConfigFileBytes)))
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("Load() error = %v, want size error", err)
	}
}

func TestEnsureFileCreatesDefaults(t *testing.T) {
	path := useConfigDir(t)
	cfg, err := EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("EnsureFile() = %+v, want defaults", cfg)
	}
	loaded, err := Load(path)
	if err != nil || loaded != DefaultConfig() {
		t.Fatalf("Load() after EnsureFile = %+v, %v", loaded, err)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("config permissions = %o, want 600", perm)
		}
	}
}

func TestEnsureFileKeepsExisting(t *testing.T) {
	path := useConfigDir(t)
	writeFile(t, path, "search_provider: duckduckgo\n")
	cfg, err := EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if cfg.SearchProvider != "duckduckgo" {
		t.Fatalf("SearchProvider = %q", cfg.SearchProvider)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "search_provider: duckduckgo\n" {
		t.Fatalf("EnsureFile rewrote an existing file: %q", raw)
	}
}

func TestSaveRejectsPathOutsideConfigDir(t *testing.T) {
	useConfigDir(t)
	outside := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := Save(outside, DefaultConfig()); err == nil || !strings.Contains(err.Error(), "outside config directory") {
		t.Fatalf("Save() error = %v, want outside-directory error", err)
	}
}

func TestSaveNormalizes(t *testing.T) {
	path := useConfigDir(t)
	saved, err := Save(path, Config{GlobalHotkey: "shift+ctrl+f1"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.GlobalHotkey != "Ctrl+Shift+F1" || saved.SearchProvider != DefaultConfig().SearchProvider {
		t.Fatalf("Save() = %+v", saved)
	}
	loaded, err := Load(path)
	if err != nil || loaded != saved {
		t.Fatalf("Load() = %+v, %v; want %+v", loaded, err, saved)
	}
}

func TestDatabaseFile(t *testing.T) {
	home := t.TempDir()
	orig := userHomeDirFn
	userHomeDirFn = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDirFn = orig })

	configPath := filepath.Join("base", "Glimpse", "config.yaml")
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "next to config", path: "", want: filepath.Join("base", "Glimpse", "glimpse.db")},
		{name: "explicit", path: filepath.Join("data", "g.db"), want: filepath.Join("data", "g.db")},
		{name: "home relative", path: "~/g.db", want: filepath.Join(home, "g.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Config{DatabasePath: tt.path}.DatabaseFile(configPath)
			if got != tt.want {
				t.Fatalf("DatabaseFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHotkey(t *testing.T) {
	s, err := DefaultConfig().Hotkey()
	if err != nil {
		t.Fatalf("Hotkey() error = %v", err)
	}
	if s.String() != "Ctrl+Shift+Space" {
		t.Fatalf("Hotkey() = %v", s)
	}
}

func TestPathWithinDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "config")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "same path", path: dir, want: true},
		{name: "child", path: filepath.Join(dir, "sub", "config.yaml"), want: true},
		{name: "traversal", path: filepath.Join(dir, "..", "outside.yaml"), want: false},
		{name: "sibling", path: filepath.Join(base, "other", "config.yaml"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pathWithinDir(tt.path, dir); got != tt.want {
				t.Fatalf("pathWithinDir(%q, %q) = %v, want %v", tt.path, dir, got, tt.want)
			}
		})
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	for _, content := range []string{"a: 1\n", "a: 2\n"} {
		if err := atomicWrite(path, []byte(content)); err != nil {
			t.Fatalf("atomicWrite() error = %v", err)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != "a: 2\n" {
		t.Fatalf("content = %q, %v", raw, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("directory has %d entries, want 1", len(entries))
	}
}

package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glimpse/internal/config"
	"glimpse/internal/sessionlog"
	"glimpse/internal/testutil"
)

func TestSessionLogTeesWarnings(t *testing.T) {
	ta := newTestApp(t, testAppOptions{})
	var out testutil.LogBuffer
	ta.initSessionLog(&out)
	t.Cleanup(ta.closeSessionLog)

	slog.Info("[overlay] shown")
	slog.Warn("[hotkey] registration failed", "error", errors.New("taken"))

	entries := ta.GetSessionErrorLog()
	if len(entries) == 0 {
		t.Fatal("GetSessionErrorLog() is empty")
	}
	last := entries[len(entries)-1]
	if last.Source != "hotkey" || last.Level != "warn" || !strings.Contains(last.Message, "taken") {
		t.Fatalf("entry = %+v, want hotkey warning carrying the error", last)
	}
	for _, e := range entries {
		if e.Source == "overlay" {
			t.Fatalf("info record leaked into the journal: %+v", e)
		}
	}
	if !strings.Contains(out.String(), "[overlay] shown") {
		t.Fatalf("info line missing from text output: %q", out.String())
	}

	path := ta.GetSessionLogFilePath()
	wantDir := filepath.Join(filepath.Dir(ta.configPath), sessionLogDir)
	if filepath.Dir(path) != wantDir {
		t.Fatalf("GetSessionLogFilePath() = %q, want a file in %q", path, wantDir)
	}
	testutil.Eventually(t, waitTimeout, func() bool {
		return len(ta.rt.emitted(eventSessionLogUpdated)) > 0
	})
}

func TestSessionLogWithoutFile(t *testing.T) {
	ta := newTestApp(t, testAppOptions{})
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	swapForTest(t, &openJournalFn, func(_ string, opts sessionlog.Options) (*sessionlog.Journal, error) {
		return sessionlog.Open(filepath.Join(blocker, sessionLogDir), opts)
	})
	var out testutil.LogBuffer
	ta.initSessionLog(&out)
	t.Cleanup(ta.closeSessionLog)

	if got := ta.GetSessionLogFilePath(); got != "" {
		t.Fatalf("GetSessionLogFilePath() = %q, want empty", got)
	}
	if len(ta.GetSessionErrorLog()) == 0 {
		t.Fatal("journal warning should be kept in memory")
	}
}

func TestSessionLogBeforeInit(t *testing.T) {
	app := NewApp(filepath.Join(t.TempDir(), "config.yaml"), config.DefaultConfig(), nil)
	if got := app.GetSessionErrorLog(); got == nil || len(got) != 0 {
		t.Fatalf("GetSessionErrorLog() = %#v, want empty non-nil", got)
	}
	if got := app.GetSessionLogFilePath(); got != "" {
		t.Fatalf("GetSessionLogFilePath() = %q, want empty", got)
	}
}

package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"glimpse/internal/sessionlog"
)

const sessionLogDir = "session-logs"

var openJournalFn = sessionlog.Open

// initSessionLog installs the default slog logger: text to out, with
// warnings and errors teed into the per-run journal. Journal failures are
// non-fatal; entries then stay in memory only.
func (a *App) initSessionLog(out io.Writer) {
	dir := filepath.Join(filepath.Dir(a.configPath), sessionLogDir)
	journal, err := openJournalFn(dir, sessionlog.Options{OnUpdate: a.pingSessionLog})
	a.journal = journal

	base := slog.NewTextHandler(out, &slog.HandlerOptions{Level: a.logLevel})
	slog.SetDefault(slog.New(sessionlog.NewTeeHandler(base, slog.LevelWarn, journal.Append)))

	if err != nil {
		slog.Warn("[session-log] file journal unavailable", "dir", dir, "error", err)
		return
	}
	slog.Info("[session-log] initialized", "path", journal.Path())
}

// closeSessionLog flushes the journal file after the runtime has exited.
func (a *App) closeSessionLog() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		slog.Debug("[session-log] close failed", "error", err)
	}
}

// pingSessionLog tells the frontend to refetch. It must not log: it runs
// inside the tee handler.
func (a *App) pingSessionLog() {
	if ctx := a.runtimeContext(); ctx != nil {
		runtimeEventsEmitFn(ctx, eventSessionLogUpdated, nil)
	}
}

// GetSessionErrorLog returns this run's warnings and errors, oldest first.
func (a *App) GetSessionErrorLog() []sessionlog.Entry {
	if a.journal == nil {
		return []sessionlog.Entry{}
	}
	return a.journal.Snapshot()
}

// GetSessionLogFilePath returns the journal file, or "" when only the
// in-memory log is available.
func (a *App) GetSessionLogFilePath() string {
	if a.journal == nil {
		return ""
	}
	return a.journal.Path()
}

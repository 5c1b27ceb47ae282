package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"glimpse/internal/workerutil"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads the config file when it changes on disk and reports
// configurations that differ from the last one seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(Config)
	fsw      *fsnotify.Watcher

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	reloadMu sync.Mutex

	mu     sync.Mutex
	last   Config
	timer  *time.Timer
	closed bool
}

// Watch starts watching path's directory. Editors commonly replace the
// file through a rename, so the directory is watched rather than the file.
// onChange runs on a timer goroutine, never concurrently with itself.
func Watch(path string, current Config, debounce time.Duration, onChange func(Config)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch config: onChange is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: resolve path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     absPath,
		debounce: debounce,
		onChange: onChange,
		fsw:      fsw,
		cancel:   cancel,
		last:     current,
	}
	workerutil.RunWithPanicRecovery(ctx, "config-watcher", &w.wg, w.run, workerutil.RecoveryOptions{
		IsShutdown: w.isClosed,
	})
	slog.Debug("[config] watching for changes", "path", absPath)
	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("[config] watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()
	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("[config] reload failed, keeping previous config", "path", w.path, "error", err)
		return
	}
	w.mu.Lock()
	if w.closed || cfg == w.last {
		w.mu.Unlock()
		return
	}
	w.last = cfg
	w.mu.Unlock()
	slog.Info("[config] config reloaded", "path", w.path)
	w.onChange(cfg)
}

func (w *Watcher) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close stops watching. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
		w.cancel()
		w.wg.Wait()
	})
	return err
}

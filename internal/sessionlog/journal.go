package sessionlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	timestampLayout = "20060102150405"

	// DefaultMaxFiles bounds the per-run files kept in the log directory.
	DefaultMaxFiles = 50
	// DefaultMaxEntries bounds the in-memory snapshot.
	DefaultMaxEntries = 2000
	// DefaultNotifyInterval throttles update notifications.
	DefaultNotifyInterval = 50 * time.Millisecond
)

// Entry is one journal line.
type Entry struct {
	// Seq increases monotonically for the life of the journal.
	Seq       uint64 `json:"seq"`
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Source    string `json:"source"`
}

// Options configures a Journal.
type Options struct {
	MaxFiles       int
	MaxEntries     int
	NotifyInterval time.Duration
	// OnUpdate is a throttled ping; readers fetch Snapshot on receipt, so a
	// dropped ping never loses entries.
	OnUpdate func()
}

func (o *Options) applyDefaults() {
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.NotifyInterval <= 0 {
		o.NotifyInterval = DefaultNotifyInterval
	}
}

// Journal appends entries to a JSONL file for this run and keeps the most
// recent ones in memory. Never call slog while holding mu: the tee handler
// calls back into Append.
type Journal struct {
	opts Options

	mu         sync.RWMutex
	file       *os.File
	path       string
	seq        uint64
	entries    ring
	lastNotify time.Time
}

// Open creates <dir>/session-<time>-<pid>.jsonl and trims old files. A
// journal that failed to open still records in memory.
func Open(dir string, opts Options) (*Journal, error) {
	opts.applyDefaults()
	j := &Journal{opts: opts, entries: newRing(opts.MaxEntries)}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return j, fmt.Errorf("create session log dir: %w", err)
	}
	name := fmt.Sprintf("session-%s-%d.jsonl", time.Now().Format("20060102-150405"), os.Getpid())
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return j, fmt.Errorf("open session log: %w", err)
	}
	j.file = f
	j.path = path
	if err := removeOldFiles(dir, name, opts.MaxFiles); err != nil {
		return j, err
	}
	return j, nil
}

// Path returns the file backing the journal, if any.
func (j *Journal) Path() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.path
}

// Append assigns the next sequence number and records entry.
func (j *Journal) Append(entry Entry) {
	var writeErr error
	var syncFile *os.File
	notify := false

	j.mu.Lock()
	j.seq++
	entry.Seq = j.seq
	if j.file != nil {
		raw, err := json.Marshal(entry)
		if err == nil {
			_, err = j.file.Write(append(raw, '\n'))
		}
		if err != nil {
			writeErr = err
		} else if entry.Level == "error" {
			syncFile = j.file
		}
	}
	j.entries.push(entry)
	if now := time.Now(); now.Sub(j.lastNotify) >= j.opts.NotifyInterval {
		j.lastNotify = now
		notify = true
	}
	j.mu.Unlock()

	if syncFile != nil {
		if err := syncFile.Sync(); err != nil && !isCloseRace(err) {
			fmt.Fprintf(os.Stderr, "[session-log] failed to sync log file: %v\n", err)
		}
	}
	if writeErr != nil {
		fmt.Fprintf(os.Stderr, "[session-log] failed to write log entry: %v\n", writeErr)
	}
	if notify && j.opts.OnUpdate != nil {
		j.opts.OnUpdate()
	}
}

// Snapshot returns the in-memory entries, oldest first.
func (j *Journal) Snapshot() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.entries.snapshot()
}

// Close closes the file. Later entries stay in memory only.
func (j *Journal) Close() error {
	j.mu.Lock()
	f := j.file
	j.file = nil
	j.mu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// isCloseRace matches a Sync that lost the race with Close.
func isCloseRace(err error) bool {
	return errors.Is(err, os.ErrClosed) || (runtime.GOOS == "windows" && errors.Is(err, syscall.EINVAL))
}

// removeOldFiles deletes the oldest session files beyond maxFiles, never
// the current one.
func removeOldFiles(dir, current string, maxFiles int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read session log dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, "session-") && strings.HasSuffix(n, ".jsonl") {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	excess := len(names) - maxFiles
	var errs []error
	for _, n := range names {
		if excess <= 0 {
			break
		}
		if n == current {
			continue
		}
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			errs = append(errs, err)
			continue
		}
		excess--
	}
	return errors.Join(errs...)
}

// ring is a fixed-capacity buffer that overwrites its oldest entry.
type ring struct {
	buf   []Entry
	head  int
	count int
}

func newRing(capacity int) ring {
	return ring{buf: make([]Entry, max(capacity, 1))}
}

func (r *ring) push(e Entry) {
	n := len(r.buf)
	if r.count < n {
		r.buf[(r.head+r.count)%n] = e
		r.count++
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % n
}

func (r *ring) snapshot() []Entry {
	out := make([]Entry, r.count)
	first := min(len(r.buf)-r.head, r.count)
	copy(out, r.buf[r.head:r.head+first])
	copy(out[first:], r.buf[:r.count-first])
	return out
}

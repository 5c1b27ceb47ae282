// Package history keeps the most-recent-first list of submitted queries.
package history

import (
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"glimpse/internal/observe"
)

const (
	// MaxEntries caps the stored history.
	MaxEntries = 15
	// Key is the list key in the backing store.
	Key = "search.history.entries"
)

// ListStore persists string lists.
type ListStore interface {
	GetList(key string) ([]string, bool, error)
	SetList(key string, list []string) error
	RemoveList(key string) error
}

// Store is safe for concurrent use.
type Store struct {
	lists ListStore

	// writeMu orders each memory update with its store write, so the
	// persisted list always matches the latest in-memory change.
	writeMu sync.Mutex

	mu      sync.Mutex
	entries []string

	changes observe.Subject[[]string]
}

// New loads the persisted history. A load failure starts empty.
func New(lists ListStore) *Store {
	s := &Store{lists: lists}
	stored, ok, err := lists.GetList(Key)
	switch {
	case err != nil:
		slog.Warn("[history] failed to load history, starting empty", "error", err)
	case ok:
		s.entries = normalize(stored)
	}
	return s
}

func normalize(stored []string) []string {
	out := make([]string, 0, min(len(stored), MaxEntries))
	for _, e := range stored {
		e = strings.TrimSpace(e)
		if e == "" || containsFold(out, e) {
			continue
		}
		out = append(out, e)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	return slices.IndexFunc(list, func(e string) bool { return strings.EqualFold(e, v) }) >= 0
}

// Record moves query to the front, replacing any case-insensitive
// duplicate. Blank queries are ignored. The in-memory list is updated even
// when persisting fails.
func (s *Store) Record(query string) error {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	updated := make([]string, 0, len(s.entries)+1)
	updated = append(updated, normalized)
	for _, e := range s.entries {
		if !strings.EqualFold(e, normalized) {
			updated = append(updated, e)
		}
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	s.entries = updated
	snapshot := slices.Clone(updated)
	s.mu.Unlock()

	err := s.lists.SetList(Key, snapshot)
	if err != nil {
		slog.Warn("[history] failed to persist history", "error", err)
	}
	s.changes.Publish(snapshot)
	return err
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Reload re-reads the stored list, picking up writes from another process,
// and publishes when it changed. A load failure keeps the current entries.
func (s *Store) Reload() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	stored, ok, err := s.lists.GetList(Key)
	if err != nil {
		slog.Warn("[history] failed to reload history", "error", err)
		return err
	}
	var next []string
	if ok {
		next = normalize(stored)
	}
	s.mu.Lock()
	changed := !slices.Equal(s.entries, next)
	s.entries = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()
	if changed {
		if snapshot == nil {
			snapshot = []string{}
		}
		s.changes.Publish(snapshot)
	}
	return nil
}

// Clear empties the history and removes the stored list.
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	err := s.lists.RemoveList(Key)
	if err != nil {
		slog.Warn("[history] failed to clear stored history", "error", err)
	}
	s.changes.Publish([]string{})
	return err
}

// Subscribe observes history changes.
func (s *Store) Subscribe(fn func([]string)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// Suggest returns up to limit entries related to query. Entries containing
// the query come first, then near misses by edit distance; ties keep
// recency order. An empty query returns the most recent entries.
func (s *Store) Suggest(query string, limit int) []string {
	entries := s.Entries()
	if limit <= 0 {
		limit = MaxEntries
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries[:min(limit, len(entries))]
	}

	type candidate struct {
		entry    string
		contains bool
		distance int
	}
	maxDistance := max(1, len([]rune(q))/3)
	var candidates []candidate
	for _, e := range entries {
		lower := strings.ToLower(e)
		c := candidate{entry: e, contains: strings.Contains(lower, q)}
		if !c.contains {
			c.distance = levenshtein.ComputeDistance(q, prefixRunes(lower, len([]rune(q))))
			if c.distance > maxDistance {
				continue
			}
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].contains != candidates[j].contains {
			return candidates[i].contains
		}
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates[:min(limit, len(candidates))] {
		out = append(out, c.entry)
	}
	return out
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

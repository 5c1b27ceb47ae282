// Package preferences persists the user's toggle shortcut and search
// provider.
package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"glimpse/internal/hotkeys"
	"glimpse/internal/observe"
	"glimpse/internal/search"
)

const (
	ShortcutKey = "search.hotkey"
	ProviderKey = "search.provider"
)

// ErrInvalidShortcut is returned for shortcuts without a modifier.
var ErrInvalidShortcut = errors.New("shortcut requires at least one modifier")

// ErrUnknownProvider is returned for provider ids that are not registered.
var ErrUnknownProvider = errors.New("unknown search provider")

// KV is the byte-valued get/set contract the store persists through.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Defaults are used when nothing valid is persisted.
type Defaults struct {
	Shortcut   hotkeys.Shortcut
	ProviderID string
}

// Store is safe for concurrent use.
type Store struct {
	kv       KV
	defaults Defaults

	mu       sync.Mutex
	shortcut hotkeys.Shortcut
	provider string

	shortcutChanges observe.Subject[hotkeys.Shortcut]
	providerChanges observe.Subject[string]
}

// New loads persisted values, falling back to defaults on absence or
// decode failure. Zero-value defaults select Control+Shift+Space and the
// default provider.
func New(kv KV, defaults Defaults) *Store {
	if defaults.Shortcut.IsZero() || !defaults.Shortcut.HasModifier() {
		defaults.Shortcut = hotkeys.DefaultToggle()
	}
	if _, ok := search.Lookup(defaults.ProviderID); !ok {
		defaults.ProviderID = search.DefaultID
	}
	s := &Store{kv: kv, defaults: defaults}
	s.shortcut, s.provider = s.readPersisted()
	return s
}

// Reload re-reads values another process persisted and notifies
// observers of whatever changed.
func (s *Store) Reload() {
	sc, provider := s.readPersisted()
	s.mu.Lock()
	scChanged := s.shortcut != sc
	providerChanged := s.provider != provider
	s.shortcut, s.provider = sc, provider
	s.mu.Unlock()
	if scChanged {
		s.shortcutChanges.Publish(sc)
	}
	if providerChanged {
		s.providerChanges.Publish(provider)
	}
}

// readPersisted returns the stored values, substituting defaults for
// anything absent or invalid.
func (s *Store) readPersisted() (hotkeys.Shortcut, string) {
	sc, provider := s.defaults.Shortcut, s.defaults.ProviderID
	if raw, ok, err := s.kv.Get(ShortcutKey); err != nil {
		slog.Warn("[preferences] failed to read shortcut, using default", "error", err)
	} else if ok {
		decoded, err := hotkeys.Decode(raw)
		switch {
		case err != nil:
			slog.Warn("[preferences] stored shortcut is invalid, using default", "error", err)
		case !decoded.HasModifier():
			slog.Warn("[preferences] stored shortcut has no modifier, using default", "shortcut", decoded.String())
		default:
			sc = decoded
		}
	}

	if raw, ok, err := s.kv.Get(ProviderKey); err != nil {
		slog.Warn("[preferences] failed to read provider, using default", "error", err)
	} else if ok {
		if _, known := search.Lookup(string(raw)); known {
			provider = string(raw)
		} else {
			slog.Warn("[preferences] stored provider is unknown, using default", "provider", string(raw))
		}
	}
	return sc, provider
}

// Shortcut returns the configured toggle shortcut.
func (s *Store) Shortcut() hotkeys.Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shortcut
}

// SetShortcut persists sc and notifies observers when it differs from the
// current value.
func (s *Store) SetShortcut(sc hotkeys.Shortcut) error {
	changed, err := s.storeShortcut(sc)
	if err != nil {
		return err
	}
	if changed {
		s.shortcutChanges.Publish(sc)
	}
	return nil
}

// RestoreShortcut persists sc without notifying observers. It is used to
// roll back a shortcut the OS refused.
func (s *Store) RestoreShortcut(sc hotkeys.Shortcut) error {
	_, err := s.storeShortcut(sc)
	return err
}

// ResetShortcut restores the default shortcut.
func (s *Store) ResetShortcut() error {
	return s.SetShortcut(s.defaults.Shortcut)
}

func (s *Store) storeShortcut(sc hotkeys.Shortcut) (bool, error) {
	if !sc.HasModifier() {
		return false, ErrInvalidShortcut
	}
	raw, err := hotkeys.Encode(sc)
	if err != nil {
		return false, err
	}
	if err := s.kv.Set(ShortcutKey, raw); err != nil {
		return false, fmt.Errorf("persist shortcut: %w", err)
	}
	s.mu.Lock()
	changed := s.shortcut != sc
	s.shortcut = sc
	s.mu.Unlock()
	return changed, nil
}

// SubscribeShortcut observes shortcut changes.
func (s *Store) SubscribeShortcut(fn func(hotkeys.Shortcut)) (unsubscribe func()) {
	return s.shortcutChanges.Subscribe(fn)
}

// ProviderID returns the configured search provider id.
func (s *Store) ProviderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// Provider returns the configured search provider.
func (s *Store) Provider() search.Provider {
	return search.MustLookup(s.ProviderID())
}

// SetProvider persists id and notifies observers on change.
func (s *Store) SetProvider(id string) error {
	if _, ok := search.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	if err := s.kv.Set(ProviderKey, []byte(id)); err != nil {
		return fmt.Errorf("persist provider: %w", err)
	}
	s.mu.Lock()
	changed := s.provider != id
	s.provider = id
	s.mu.Unlock()
	if changed {
		s.providerChanges.Publish(id)
	}
	return nil
}

// SubscribeProvider observes provider changes.
func (s *Store) SubscribeProvider(fn func(string)) (unsubscribe func()) {
	return s.providerChanges.Subscribe(fn)
}

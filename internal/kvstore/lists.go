package kvstore

import (
	"encoding/json"
	"fmt"
)

// Lists stores string lists as JSON values in a Store.
type Lists struct {
	store Store
}

// NewLists wraps store.
func NewLists(store Store) *Lists {
	return &Lists{store: store}
}

// GetList returns the list at key. ok is false when nothing is stored.
func (l *Lists) GetList(key string) ([]string, bool, error) {
	raw, ok, err := l.store.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("decode list %q: %w", key, err)
	}
	return list, true, nil
}

// SetList replaces the list at key.
func (l *Lists) SetList(key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode list %q: %w", key, err)
	}
	return l.store.Set(key, raw)
}

// RemoveList deletes the list at key.
func (l *Lists) RemoveList(key string) error {
	return l.store.Remove(key)
}

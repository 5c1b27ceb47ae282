//go:build !darwin && !windows && !linux

package osbackend

import (
	"errors"

	"glimpse/internal/hotkeys"
)

// Backend implements hotkeys.Backend on platforms without global hotkeys.
type Backend struct{}

// New returns a backend whose Bind always fails.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Bind(s hotkeys.Shortcut, _ hotkeys.Signature, _ chan<- hotkeys.Signature) (hotkeys.Handle, error) {
	return nil, &hotkeys.RegistrationError{
		Shortcut: s,
		Code:     hotkeys.UnknownCode,
		Err:      errors.New("global hotkeys are not supported on this platform"),
	}
}

//go:build darwin || windows || linux

// Package osbackend binds hotkeys.Shortcut values to OS-level global
// hotkeys through golang.design/x/hotkey.
package osbackend

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/hotkey"

	"glimpse/internal/hotkeys"
)

// Backend implements hotkeys.Backend.
type Backend struct{}

// New returns an OS hotkey backend.
func New() *Backend {
	return &Backend{}
}

// Bind registers s with the OS and forwards every key-down as sig into sink.
func (b *Backend) Bind(s hotkeys.Shortcut, sig hotkeys.Signature, sink chan<- hotkeys.Signature) (hotkeys.Handle, error) {
	mods, err := nativeModifiers(s.Modifiers())
	if err != nil {
		return nil, err
	}
	key, ok := nativeKey(s.KeyCode())
	if !ok {
		return nil, fmt.Errorf("key %q cannot be bound on this platform", s.KeyDisplay())
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, &hotkeys.RegistrationError{Shortcut: s, Code: hotkeys.UnknownCode, Err: err}
	}

	h := &handle{hk: hk, done: make(chan struct{})}
	h.wg.Go(func() {
		h.pump(sig, sink)
	})
	return h, nil
}

type handle struct {
	hk      *hotkey.Hotkey
	done    chan struct{}
	wg      sync.WaitGroup
	release sync.Once
}

func (h *handle) pump(sig hotkeys.Signature, sink chan<- hotkeys.Signature) {
	keydown := h.hk.Keydown()
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			select {
			case sink <- sig:
			default:
				slog.Warn("[hotkey] DEBUG sink full, dropping key press", "generation", sig.Generation)
			}
		}
	}
}

// Release unregisters the OS hotkey and stops the pump. Idempotent.
func (h *handle) Release() error {
	var err error
	h.release.Do(func() {
		close(h.done)
		err = h.hk.Unregister()
		h.wg.Wait()
	})
	return err
}

func nativeModifiers(m hotkeys.Modifier) ([]hotkey.Modifier, error) {
	var out []hotkey.Modifier
	for _, mod := range []hotkeys.Modifier{hotkeys.ModControl, hotkeys.ModOption, hotkeys.ModShift, hotkeys.ModCommand} {
		if !m.Has(mod) {
			continue
		}
		native, ok := modifierMap[mod]
		if !ok {
			return nil, fmt.Errorf("modifier 0x%X is not supported on this platform", uint(mod))
		}
		out = append(out, native)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("shortcut requires at least one modifier")
	}
	return out, nil
}

//go:build !unix && !windows

package singleinstance

// Lock is a no-op where no locking primitive is available.
type Lock struct{}

// TryLock always succeeds.
func TryLock(string) (*Lock, error) { return &Lock{}, nil }

// Release is a no-op.
func (l *Lock) Release() error { return nil }

// DefaultName returns an empty name.
func DefaultName() string { return "" }

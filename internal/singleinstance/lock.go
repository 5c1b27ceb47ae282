// Package singleinstance keeps one Glimpse process per user.
package singleinstance

import "errors"

// ErrAlreadyRunning is returned by TryLock when another instance holds the
// lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

//go:build !darwin && !windows

package workspace

import (
	"errors"

	"glimpse/internal/overlay"
)

var errUnsupported = errors.New("application activation is not supported on this platform")

// Workspace cannot see other applications here; the window manager decides
// focus once the overlay hides.
type Workspace struct{}

// New returns a workspace.
func New() *Workspace { return &Workspace{} }

func (w *Workspace) Frontmost() (overlay.App, bool) { return overlay.App{}, false }

func (w *Workspace) Activate(overlay.App) error { return errUnsupported }

func (w *Workspace) IsRunning(app overlay.App) bool { return processAlive(app.PID) }

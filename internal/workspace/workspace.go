// Package workspace finds and reactivates the application that was in front
// before the overlay appeared.
package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"glimpse/internal/overlay"
)

var _ overlay.Workspace = (*Workspace)(nil)

// parseFrontmost parses "<pid>, <name>" as printed by osascript for a list
// of two values.
func parseFrontmost(out string) (overlay.App, error) {
	pidText, name, ok := strings.Cut(strings.TrimSpace(out), ",")
	if !ok {
		return overlay.App{}, fmt.Errorf("unexpected frontmost output %q", out)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(pidText))
	if err != nil || pid <= 0 {
		return overlay.App{}, fmt.Errorf("invalid frontmost pid %q", pidText)
	}
	return overlay.App{PID: pid, Name: strings.TrimSpace(name)}, nil
}

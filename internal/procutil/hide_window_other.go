//go:build !windows

package procutil

import "os/exec"

// HideWindow does nothing outside Windows.
func HideWindow(_ *exec.Cmd) {}

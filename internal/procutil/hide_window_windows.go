//go:build windows

package procutil

import (
	"os/exec"
	"syscall"
)

// HideWindow sets HideWindow on cmd, keeping any SysProcAttr fields the
// caller already filled in.
func HideWindow(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}

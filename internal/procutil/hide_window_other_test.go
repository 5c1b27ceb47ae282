//go:build !windows

package procutil

import (
	"os/exec"
	"testing"
)

func TestHideWindowLeavesSysProcAttrUnset(t *testing.T) {
	cmd := exec.Command("true")
	HideWindow(cmd)
	if cmd.SysProcAttr != nil {
		t.Fatal("SysProcAttr set outside Windows")
	}
	HideWindow(nil)
}

//go:build windows

package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"glimpse/internal/overlay"

	"golang.org/x/sys/windows"
)

const stillActive = 259

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
)

// Workspace tracks foreground windows through user32.
type Workspace struct{}

// New returns a workspace.
func New() *Workspace { return &Workspace{} }

func (w *Workspace) Frontmost() (overlay.App, bool) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return overlay.App{}, false
	}
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return overlay.App{}, false
	}
	return overlay.App{PID: int(pid), Name: imageName(pid), Handle: uintptr(hwnd)}, true
}

func (w *Workspace) Activate(app overlay.App) error {
	if app.Handle == 0 {
		return fmt.Errorf("activate %s (pid %d): no window handle", app.Name, app.PID)
	}
	ok, _, err := procSetForegroundWindow.Call(app.Handle)
	if ok == 0 {
		return fmt.Errorf("activate %s (pid %d): %w", app.Name, app.PID, err)
	}
	return nil
}

func (w *Workspace) IsRunning(app overlay.App) bool {
	return processAlive(app.PID)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)
	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}

func imageName(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)
	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(windows.UTF16ToString(buf[:size])), ".exe")
}

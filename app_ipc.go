package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"glimpse/internal/ipc"
	"glimpse/internal/overlay"
)

var selfPIDFn = os.Getpid

// handleIPC serves control requests from glimpsectl and second launches.
// It runs on the ipc server's connection goroutine.
func (a *App) handleIPC(req ipc.Request) ipc.Response {
	slog.Debug("[DEBUG-IPC] request", "command", req.Command)
	var err error
	switch req.Command {
	case ipc.CmdShow:
		err = a.withOverlay(func(c *overlay.Controller) { c.Show() })
	case ipc.CmdHide:
		err = a.withOverlay(func(c *overlay.Controller) { c.Hide() })
	case ipc.CmdToggle:
		err = a.withOverlay(func(c *overlay.Controller) { c.Toggle() })
	case ipc.CmdStatus:
		return a.statusResponse()
	case ipc.CmdReloadShortcut:
		prefs, reqErr := a.requirePreferences()
		if reqErr != nil {
			return ipc.Failure(reqErr)
		}
		// Changes reach the hotkey center through the preference observers.
		prefs.Reload()
	case ipc.CmdReloadHistory:
		if a.history == nil {
			return ipc.Failure(errors.New("history is unavailable"))
		}
		err = a.history.Reload()
	default:
		err = fmt.Errorf("unknown command %q", req.Command)
	}
	if err != nil {
		slog.Warn("[ipc] request failed", "command", req.Command, "error", err)
		return ipc.Failure(err)
	}
	return ipc.Response{OK: true}
}

func (a *App) statusResponse() ipc.Response {
	status := &ipc.Status{PID: selfPIDFn(), Visibility: overlay.Hidden.String()}
	if a.prefs != nil {
		status.Provider = a.prefs.ProviderID()
	}
	if a.hotkeys != nil {
		if active, ok := a.hotkeys.Active(); ok {
			status.Shortcut = active.String()
		}
	}
	err := a.withOverlay(func(c *overlay.Controller) {
		status.Visibility = c.Visibility().String()
	})
	if err != nil {
		return ipc.Failure(err)
	}
	return ipc.Response{OK: true, Status: status}
}

//go:build darwin

package workspace

import (
	"errors"
	"strings"
	"testing"
	"time"

	"glimpse/internal/overlay"
)

func stubScripts(t *testing.T, fn func(script string) (string, error)) *[]string {
	t.Helper()
	var scripts []string
	orig := runScriptFn
	runScriptFn = func(script string, _ time.Duration) (string, error) {
		scripts = append(scripts, script)
		return fn(script)
	}
	t.Cleanup(func() { runScriptFn = orig })
	return &scripts
}

func TestFrontmost(t *testing.T) {
	stubScripts(t, func(string) (string, error) { return "501, Terminal", nil })
	app, ok := New().Frontmost()
	if !ok || app != (overlay.App{PID: 501, Name: "Terminal"}) {
		t.Fatalf("Frontmost() = %+v, %v", app, ok)
	}
}

func TestFrontmostFailure(t *testing.T) {
	stubScripts(t, func(string) (string, error) { return "", errors.New("not authorized") })
	if _, ok := New().Frontmost(); ok {
		t.Fatal("Frontmost() ok = true on script failure")
	}
}

func TestActivate(t *testing.T) {
	scripts := stubScripts(t, func(string) (string, error) { return "", nil })
	if err := New().Activate(overlay.App{PID: 501, Name: "Terminal"}); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if len(*scripts) != 1 || !strings.Contains((*scripts)[0], "unix id is 501") {
		t.Fatalf("scripts = %v", *scripts)
	}
}

func TestActivateWrapsError(t *testing.T) {
	cause := errors.New("denied")
	stubScripts(t, func(string) (string, error) { return "", cause })
	if err := New().Activate(overlay.App{PID: 1, Name: "X"}); !errors.Is(err, cause) {
		t.Fatalf("Activate() error = %v, want wrapped cause", err)
	}
}

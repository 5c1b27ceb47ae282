// Package recorder captures a new global shortcut from the next qualifying
// key press.
package recorder

import (
	"log/slog"
	"strings"

	"glimpse/internal/hotkeys"
	"glimpse/internal/keyevents"
	"glimpse/internal/observe"
)

// State is the recorder mode.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Interceptor opens an app-local key interception scope.
type Interceptor interface {
	Intercept(handler keyevents.Handler) (release func())
}

// Feedback signals a rejected key press to the user.
type Feedback interface {
	Reject(ev keyevents.KeyEvent)
}

// Snapshot is published on every state change.
type Snapshot struct {
	State    State
	Captured hotkeys.Shortcut
	// HasCapture is false until a shortcut is captured in the current
	// recording session.
	HasCapture bool
}

// Recorder is confined to the UI loop.
type Recorder struct {
	src      Interceptor
	feedback Feedback

	state      State
	captured   hotkeys.Shortcut
	hasCapture bool
	release    func()

	changes observe.Subject[Snapshot]
}

// New returns an idle recorder. feedback may be nil.
func New(src Interceptor, feedback Feedback) *Recorder {
	return &Recorder{src: src, feedback: feedback}
}

// StartRecording clears any previous capture and begins intercepting key
// presses. It is a no-op while already recording.
func (r *Recorder) StartRecording() {
	if r.state == Recording {
		return
	}
	r.captured = hotkeys.Shortcut{}
	r.hasCapture = false
	r.state = Recording
	r.release = r.src.Intercept(r.handle)
	slog.Debug("[recorder] recording started")
	r.publish()
}

// StopRecording closes the interception scope. Idempotent.
func (r *Recorder) StopRecording() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	if r.state == Idle {
		return
	}
	r.state = Idle
	slog.Debug("[recorder] recording stopped", "captured", r.hasCapture)
	r.publish()
}

// State returns the current mode.
func (r *Recorder) State() State { return r.state }

// Captured returns the shortcut captured by the last recording session.
func (r *Recorder) Captured() (hotkeys.Shortcut, bool) {
	return r.captured, r.hasCapture
}

// Subscribe observes state changes and captures.
func (r *Recorder) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return r.changes.Subscribe(fn)
}

func (r *Recorder) snapshot() Snapshot {
	return Snapshot{State: r.state, Captured: r.captured, HasCapture: r.hasCapture}
}

func (r *Recorder) publish() {
	r.changes.Publish(r.snapshot())
}

// handle consumes every key press while recording.
func (r *Recorder) handle(ev keyevents.KeyEvent) bool {
	if r.state != Recording {
		return false
	}
	if ev.KeyCode == hotkeys.KeyEscape {
		r.StopRecording()
		return true
	}

	s, ok := ShortcutFromEvent(ev)
	if !ok {
		slog.Debug("[recorder] key press rejected", "keyCode", ev.KeyCode, "modifiers", ev.Modifiers)
		if r.feedback != nil {
			r.feedback.Reject(ev)
		}
		return true
	}

	r.captured = s
	r.hasCapture = true
	slog.Info("[recorder] shortcut captured", "shortcut", s.String())
	r.StopRecording()
	return true
}

// ShortcutFromEvent derives a shortcut from a key press. It fails for
// Escape, for presses without Command, Option, Control or Shift, and for
// keys without a label.
func ShortcutFromEvent(ev keyevents.KeyEvent) (hotkeys.Shortcut, bool) {
	if ev.KeyCode == hotkeys.KeyEscape {
		return hotkeys.Shortcut{}, false
	}
	s := hotkeys.NewShortcut(ev.KeyCode, ev.Modifiers, "")
	if !s.HasModifier() {
		return hotkeys.Shortcut{}, false
	}
	label, ok := keyLabel(ev)
	if !ok {
		return hotkeys.Shortcut{}, false
	}
	return hotkeys.NewShortcut(ev.KeyCode, ev.Modifiers, label), true
}

func keyLabel(ev keyevents.KeyEvent) (string, bool) {
	if trimmed := strings.TrimSpace(ev.Characters); trimmed != "" {
		return strings.ToUpper(trimmed), true
	}
	return hotkeys.SpecialKeyLabel(ev.KeyCode)
}

package overlay

import "time"

// Curve is an opacity animation timing curve.
type Curve int

const (
	EaseOut Curve = iota
	EaseIn
)

func (c Curve) String() string {
	if c == EaseIn {
		return "ease-in"
	}
	return "ease-out"
}

// FadeRequest describes one opacity animation.
type FadeRequest struct {
	To       float64
	Duration time.Duration
	Curve    Curve
}

// Style is applied once when the window is prepared.
type Style struct {
	MinWidth  int
	MinHeight int
	Floating  bool
}

// DefaultStyle is a floating window with a 720x480 minimum content size.
func DefaultStyle() Style {
	return Style{MinWidth: 720, MinHeight: 480, Floating: true}
}

// Window is the overlay's native window.
type Window interface {
	Prepare(style Style)
	Center()
	Show()
	Hide()
	Activate()
	SetOpacity(alpha float64)
}

// Animator runs opacity animations. done must be called exactly once when
// the animation ends, from any goroutine.
type Animator interface {
	Fade(req FadeRequest, done func())
}

// App identifies a running application.
type App struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	// Handle is a platform window handle, when the platform needs one to
	// reactivate the application.
	Handle uintptr `json:"-"`
}

// Workspace is the desktop's application switcher.
type Workspace interface {
	Frontmost() (App, bool)
	Activate(app App) error
	IsRunning(app App) bool
}

// Package surface drives the embedded web content surface hosted by the
// frontend. Commands go out as runtime events; navigation state, query
// results and acknowledgments come back as events tagged with the surface id.
package surface

import "errors"

var (
	// ErrClosed completes queries issued against, or pending on, a closed
	// surface.
	ErrClosed = errors.New("surface closed")
	// ErrTimeout completes queries the frontend never answered.
	ErrTimeout = errors.New("surface query timed out")
)

// Cookie is one stored cookie visible to the surface.
type Cookie struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Observer receives surface callbacks. Callbacks may run on any goroutine.
// Nil fields are skipped.
type Observer struct {
	DidCommit     func()
	DidFinish     func()
	InputFocused  func()
	EscapePressed func()
}

// Surface is the embedded content surface contract.
type Surface interface {
	ID() string
	Load(url string)
	Reload()
	GoBack()
	GoForward()
	CanGoBack() bool
	CanGoForward() bool
	// Cookies enumerates cookies whose domain contains domain.
	Cookies(domain string, done func([]Cookie, error))
	EvaluateScript(script string, done func(result string, err error))
	// SetAcceptsFocus gates whether the surface may become the active
	// responder. Surfaces start refusing focus.
	SetAcceptsFocus(accepts bool)
	AcceptsFocus() bool
	Focus()
	SetObserver(o Observer)
	Close()
}

// Package surfacetest provides an in-memory surface for tests.
package surfacetest

import (
	"strings"
	"sync"

	"glimpse/internal/surface"
)

// Fake records commands and lets tests drive navigation callbacks.
// Cookie and script queries are held until the test answers them.
type Fake struct {
	mu           sync.Mutex
	id           string
	observer     surface.Observer
	canGoBack    bool
	canGoForward bool
	acceptsFocus bool
	closed       bool

	Loads       []string
	Navigations []string
	Scripts     []string
	FocusCalls  int
	FocusGates  []bool

	cookieQueries []func([]surface.Cookie, error)
	scriptQueries []func(string, error)
}

var _ surface.Surface = (*Fake)(nil)

// New returns a fake surface with the given id.
func New(id string) *Fake {
	return &Fake{id: id}
}

func (f *Fake) ID() string { return f.id }

func (f *Fake) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads = append(f.Loads, url)
}

func (f *Fake) Reload()    { f.navigate("reload") }
func (f *Fake) GoBack()    { f.navigate("back") }
func (f *Fake) GoForward() { f.navigate("forward") }

func (f *Fake) navigate(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Navigations = append(f.Navigations, action)
}

func (f *Fake) CanGoBack() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canGoBack
}

func (f *Fake) CanGoForward() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canGoForward
}

func (f *Fake) Cookies(_ string, done func([]surface.Cookie, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookieQueries = append(f.cookieQueries, done)
}

func (f *Fake) EvaluateScript(script string, done func(string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scripts = append(f.Scripts, script)
	if done != nil {
		f.scriptQueries = append(f.scriptQueries, done)
	}
}

func (f *Fake) SetAcceptsFocus(accepts bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acceptsFocus = accepts
	f.FocusGates = append(f.FocusGates, accepts)
}

func (f *Fake) AcceptsFocus() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acceptsFocus
}

func (f *Fake) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FocusCalls++
}

func (f *Fake) SetObserver(o surface.Observer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = o
}

func (f *Fake) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// SetHistory sets the capability flags reported by the surface.
func (f *Fake) SetHistory(back, forward bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canGoBack, f.canGoForward = back, forward
}

// Commit reports a committed navigation.
func (f *Fake) Commit() {
	if o := f.currentObserver(); o.DidCommit != nil {
		o.DidCommit()
	}
}

// Finish reports a finished navigation.
func (f *Fake) Finish() {
	if o := f.currentObserver(); o.DidFinish != nil {
		o.DidFinish()
	}
}

// AckInputFocused reports that the in-page input took focus.
func (f *Fake) AckInputFocused() {
	if o := f.currentObserver(); o.InputFocused != nil {
		o.InputFocused()
	}
}

// PressEscape reports Escape inside the content.
func (f *Fake) PressEscape() {
	if o := f.currentObserver(); o.EscapePressed != nil {
		o.EscapePressed()
	}
}

func (f *Fake) currentObserver() surface.Observer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.observer
}

// AnswerCookies resolves every pending cookie query with cookies.
func (f *Fake) AnswerCookies(cookies []surface.Cookie, err error) int {
	f.mu.Lock()
	queries := f.cookieQueries
	f.cookieQueries = nil
	f.mu.Unlock()
	for _, done := range queries {
		done(cookies, err)
	}
	return len(queries)
}

// AnswerScripts resolves every pending script query.
func (f *Fake) AnswerScripts(result string, err error) int {
	f.mu.Lock()
	queries := f.scriptQueries
	f.scriptQueries = nil
	f.mu.Unlock()
	for _, done := range queries {
		done(result, err)
	}
	return len(queries)
}

// ScriptsContaining counts evaluated scripts containing substr.
func (f *Fake) ScriptsContaining(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.Scripts {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

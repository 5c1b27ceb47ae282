package surface

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type queryResult struct {
	cookies []Cookie
	script  string
	err     error
}

type pendingQuery struct {
	timer *time.Timer
	done  func(queryResult)
}

// Bridge is a Surface whose content lives in the frontend.
type Bridge struct {
	id  string
	hub *Hub

	mu           sync.Mutex
	observer     Observer
	canGoBack    bool
	canGoForward bool
	acceptsFocus bool
	pending      map[string]*pendingQuery
	closed       bool
}

var _ Surface = (*Bridge)(nil)

func (b *Bridge) ID() string { return b.id }

func (b *Bridge) emit(name string, payload any) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		slog.Debug("[surface] command on closed surface ignored", "event", name, "surfaceId", b.id)
		return
	}
	b.hub.emitter.Emit(name, payload)
}

func (b *Bridge) Load(url string) {
	b.emit(EventLoad, LoadPayload{SurfaceID: b.id, URL: url})
}

func (b *Bridge) Reload()    { b.navigate("reload") }
func (b *Bridge) GoBack()    { b.navigate("back") }
func (b *Bridge) GoForward() { b.navigate("forward") }

func (b *Bridge) navigate(action string) {
	b.emit(EventNavigate, NavigatePayload{SurfaceID: b.id, Action: action})
}

func (b *Bridge) CanGoBack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canGoBack
}

func (b *Bridge) CanGoForward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canGoForward
}

func (b *Bridge) Cookies(domain string, done func([]Cookie, error)) {
	requestID, ok := b.startQuery(func(r queryResult) { done(r.cookies, r.err) })
	if !ok {
		done(nil, ErrClosed)
		return
	}
	b.hub.emitter.Emit(EventCookiesQuery, CookiesRequestPayload{SurfaceID: b.id, RequestID: requestID, Domain: domain})
}

func (b *Bridge) EvaluateScript(script string, done func(string, error)) {
	if done == nil {
		done = func(string, error) {}
	}
	requestID, ok := b.startQuery(func(r queryResult) { done(r.script, r.err) })
	if !ok {
		done("", ErrClosed)
		return
	}
	b.hub.emitter.Emit(EventEvalRequest, EvalRequestPayload{SurfaceID: b.id, RequestID: requestID, Script: script})
}

func (b *Bridge) startQuery(done func(queryResult)) (string, bool) {
	requestID := uuid.NewString()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", false
	}
	q := &pendingQuery{done: done}
	q.timer = time.AfterFunc(b.hub.queryTimeout, func() {
		slog.Warn("[surface] query timed out", "surfaceId", b.id, "requestId", requestID)
		b.complete(requestID, queryResult{err: ErrTimeout})
	})
	b.pending[requestID] = q
	return requestID, true
}

// complete resolves a pending query at most once.
func (b *Bridge) complete(requestID string, r queryResult) {
	b.mu.Lock()
	q, ok := b.pending[requestID]
	delete(b.pending, requestID)
	b.mu.Unlock()
	if !ok {
		slog.Debug("[surface] late or unknown query result dropped", "surfaceId", b.id, "requestId", requestID)
		return
	}
	q.timer.Stop()
	q.done(r)
}

func (b *Bridge) SetAcceptsFocus(accepts bool) {
	b.mu.Lock()
	b.acceptsFocus = accepts
	b.mu.Unlock()
	b.emit(EventAcceptsFocus, AcceptsFocusPayload{SurfaceID: b.id, Accepts: accepts})
}

func (b *Bridge) AcceptsFocus() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acceptsFocus
}

func (b *Bridge) Focus() {
	b.emit(EventFocus, SignalPayload{SurfaceID: b.id})
}

func (b *Bridge) SetObserver(o Observer) {
	b.mu.Lock()
	b.observer = o
	b.mu.Unlock()
}

// Close unregisters the surface and fails pending queries. Idempotent.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	pending := b.pending
	b.pending = map[string]*pendingQuery{}
	b.observer = Observer{}
	b.mu.Unlock()

	b.hub.remove(b.id)
	b.hub.emitter.Emit(EventClose, SignalPayload{SurfaceID: b.id})
	for _, q := range pending {
		q.timer.Stop()
		q.done(queryResult{err: ErrClosed})
	}
}

func (b *Bridge) handleState(p StatePayload) {
	b.mu.Lock()
	b.canGoBack = p.CanGoBack
	b.canGoForward = p.CanGoForward
	o := b.observer
	b.mu.Unlock()

	switch p.Phase {
	case PhaseCommitted:
		if o.DidCommit != nil {
			o.DidCommit()
		}
	case PhaseFinished:
		if o.DidFinish != nil {
			o.DidFinish()
		}
	default:
		slog.Debug("[surface] unknown navigation phase", "phase", p.Phase, "surfaceId", b.id)
	}
}

func (b *Bridge) handleSignal(name string) {
	b.mu.Lock()
	o := b.observer
	b.mu.Unlock()

	switch name {
	case EventInputFocused:
		if o.InputFocused != nil {
			o.InputFocused()
		}
	case EventEscape:
		if o.EscapePressed != nil {
			o.EscapePressed()
		}
	}
}

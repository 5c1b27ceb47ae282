// Package keyevents routes key-down events from the presentation layer to
// app-local interceptors and default handlers.
package keyevents

import (
	"sync"

	"glimpse/internal/hotkeys"
)

// KeyEvent is one key-down delivered to the app.
type KeyEvent struct {
	KeyCode    hotkeys.KeyCode
	Modifiers  hotkeys.Modifier
	Characters string
}

// Handler consumes an event by returning true.
type Handler func(KeyEvent) bool

// Router delivers each event to the most recent interceptor first, then to
// default handlers in registration order, stopping at the first consumer.
type Router struct {
	mu           sync.Mutex
	nextID       uint64
	interceptors []routeEntry
	defaults     []routeEntry
}

type routeEntry struct {
	id      uint64
	handler Handler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Intercept installs handler ahead of every existing handler. release
// removes it and is idempotent.
func (r *Router) Intercept(handler Handler) (release func()) {
	return r.add(&r.interceptors, handler)
}

// HandleDefault installs a fallback handler consulted after interceptors.
func (r *Router) HandleDefault(handler Handler) (release func()) {
	return r.add(&r.defaults, handler)
}

func (r *Router) add(list *[]routeEntry, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	*list = append(*list, routeEntry{id: id, handler: handler})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, e := range *list {
				if e.id == id {
					*list = append((*list)[:i:i], (*list)[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch routes ev and reports whether any handler consumed it.
func (r *Router) Dispatch(ev KeyEvent) bool {
	r.mu.Lock()
	chain := make([]Handler, 0, len(r.interceptors)+len(r.defaults))
	for i := len(r.interceptors) - 1; i >= 0; i-- {
		chain = append(chain, r.interceptors[i].handler)
	}
	for _, e := range r.defaults {
		chain = append(chain, e.handler)
	}
	r.mu.Unlock()

	for _, h := range chain {
		if h(ev) {
			return true
		}
	}
	return false
}

// Intercepting reports whether an interceptor is installed.
func (r *Router) Intercepting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.interceptors) > 0
}

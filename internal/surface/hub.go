package surface

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultQueryTimeout bounds cookie and script queries.
const DefaultQueryTimeout = 5 * time.Second

// Emitter sends an event to the frontend.
type Emitter interface {
	Emit(name string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(name string, payload any)

func (f EmitterFunc) Emit(name string, payload any) { f(name, payload) }

// Hub creates bridged surfaces and routes inbound events to them by id.
// Events for unknown ids belong to discarded surfaces and are dropped.
type Hub struct {
	emitter      Emitter
	queryTimeout time.Duration

	mu       sync.Mutex
	surfaces map[string]*Bridge
}

// NewHub returns a hub. A non-positive timeout selects DefaultQueryTimeout.
func NewHub(emitter Emitter, queryTimeout time.Duration) *Hub {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &Hub{
		emitter:      emitter,
		queryTimeout: queryTimeout,
		surfaces:     map[string]*Bridge{},
	}
}

// NewSurface registers a fresh bridged surface.
func (h *Hub) NewSurface() *Bridge {
	b := &Bridge{
		id:      uuid.NewString(),
		hub:     h,
		pending: map[string]*pendingQuery{},
	}
	h.mu.Lock()
	h.surfaces[b.id] = b
	h.mu.Unlock()
	return b
}

// Len reports registered surfaces.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.surfaces)
}

func (h *Hub) lookup(id string) *Bridge {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces[strings.TrimSpace(id)]
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.surfaces, id)
	h.mu.Unlock()
}

// HandleEvent routes one inbound runtime event. It reports whether the
// event reached a live surface.
func (h *Hub) HandleEvent(name string, data ...any) bool {
	switch name {
	case EventState:
		var p StatePayload
		if !decodeEventPayload(name, data, &p) {
			return false
		}
		return h.route(p.SurfaceID, name, func(b *Bridge) { b.handleState(p) })
	case EventCookiesResult:
		var p CookiesResultPayload
		if !decodeEventPayload(name, data, &p) {
			return false
		}
		return h.route(p.SurfaceID, name, func(b *Bridge) {
			var err error
			if p.Error != "" {
				err = errors.New(p.Error)
			}
			b.complete(p.RequestID, queryResult{cookies: p.Cookies, err: err})
		})
	case EventEvalResult:
		var p EvalResultPayload
		if !decodeEventPayload(name, data, &p) {
			return false
		}
		return h.route(p.SurfaceID, name, func(b *Bridge) {
			var err error
			if p.Error != "" {
				err = errors.New(p.Error)
			}
			b.complete(p.RequestID, queryResult{script: p.Result, err: err})
		})
	case EventInputFocused, EventEscape:
		var p SignalPayload
		if !decodeEventPayload(name, data, &p) {
			return false
		}
		return h.route(p.SurfaceID, name, func(b *Bridge) { b.handleSignal(name) })
	default:
		slog.Debug("[surface] unhandled event", "event", name)
		return false
	}
}

func (h *Hub) route(id, event string, fn func(*Bridge)) bool {
	b := h.lookup(id)
	if b == nil {
		slog.Debug("[surface] dropping event for unknown surface", "event", event, "surfaceId", id)
		return false
	}
	fn(b)
	return true
}

// decodeEventPayload accepts either a typed payload or the generic map the
// runtime decodes frontend JSON into.
func decodeEventPayload(name string, data []any, out any) bool {
	if len(data) == 0 || data[0] == nil {
		slog.Warn("[surface] event without payload", "event", name)
		return false
	}
	raw, err := json.Marshal(data[0])
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		slog.Warn("[surface] malformed event payload", "event", name, "error", fmt.Sprint(err))
		return false
	}
	return true
}

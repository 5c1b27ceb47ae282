package surface

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type emitted struct {
	name    string
	payload any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEmitter) Emit(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{name: name, payload: payload})
}

func (r *recordingEmitter) last(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].name == name {
			return r.events[i].payload, true
		}
	}
	return nil, false
}

func newTestHub(timeout time.Duration) (*Hub, *recordingEmitter) {
	em := &recordingEmitter{}
	return NewHub(em, timeout), em
}

// frontendMap mimics the generic map the runtime hands to event listeners.
func frontendMap(kv ...any) map[string]any {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func TestBridgeLoadEmitsTaggedCommand(t *testing.T) {
	hub, em := newTestHub(0)
	b := hub.NewSurface()

	b.Load("https://www.google.com")

	payload, ok := em.last(EventLoad)
	if !ok {
		t.Fatal("no load event emitted")
	}
	got := payload.(LoadPayload)
	if got.SurfaceID != b.ID() || got.URL != "https://www.google.com" {
		t.Fatalf("load payload = %+v", got)
	}
}

func TestStateEventUpdatesFlagsAndNotifies(t *testing.T) {
	hub, _ := newTestHub(0)
	b := hub.NewSurface()
	var phases []string
	b.SetObserver(Observer{
		DidCommit: func() { phases = append(phases, "commit") },
		DidFinish: func() { phases = append(phases, "finish") },
	})

	hub.HandleEvent(EventState, frontendMap("surfaceId", b.ID(), "phase", PhaseCommitted, "canGoBack", true))
	if !b.CanGoBack() || b.CanGoForward() {
		t.Fatalf("flags = back %v forward %v, want true false", b.CanGoBack(), b.CanGoForward())
	}
	hub.HandleEvent(EventState, StatePayload{SurfaceID: b.ID(), Phase: PhaseFinished, CanGoForward: true})

	if len(phases) != 2 || phases[0] != "commit" || phases[1] != "finish" {
		t.Fatalf("phases = %v, want [commit finish]", phases)
	}
	if b.CanGoBack() || !b.CanGoForward() {
		t.Fatal("flags were not replaced by the latest state")
	}
}

func TestEventsForDiscardedSurfaceAreDropped(t *testing.T) {
	hub, _ := newTestHub(0)
	old := hub.NewSurface()
	called := false
	old.SetObserver(Observer{DidFinish: func() { called = true }})
	old.Close()
	old.Close()

	if hub.HandleEvent(EventState, StatePayload{SurfaceID: old.ID(), Phase: PhaseFinished}) {
		t.Fatal("event for closed surface was routed")
	}
	if called {
		t.Fatal("observer of closed surface was called")
	}
	if hub.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", hub.Len())
	}
}

func TestCookiesRoundTrip(t *testing.T) {
	hub, em := newTestHub(time.Second)
	b := hub.NewSurface()

	result := make(chan []Cookie, 1)
	b.Cookies("google.com", func(c []Cookie, err error) {
		if err != nil {
			t.Errorf("Cookies() error = %v", err)
		}
		result <- c
	})

	payload, _ := em.last(EventCookiesQuery)
	req := payload.(CookiesRequestPayload)
	if req.Domain != "google.com" || req.RequestID == "" {
		t.Fatalf("request payload = %+v", req)
	}
	hub.HandleEvent(EventCookiesResult, CookiesResultPayload{
		SurfaceID: b.ID(),
		RequestID: req.RequestID,
		Cookies:   []Cookie{{Name: "SID", Domain: ".google.com"}},
	})
	// A duplicate answer is ignored.
	hub.HandleEvent(EventCookiesResult, CookiesResultPayload{SurfaceID: b.ID(), RequestID: req.RequestID})

	got := <-result
	if len(got) != 1 || got[0].Name != "SID" {
		t.Fatalf("cookies = %+v", got)
	}
}

func TestEvaluateScriptError(t *testing.T) {
	hub, em := newTestHub(time.Second)
	b := hub.NewSurface()

	errCh := make(chan error, 1)
	b.EvaluateScript("document.title", func(_ string, err error) { errCh <- err })
	payload, _ := em.last(EventEvalRequest)
	req := payload.(EvalRequestPayload)
	hub.HandleEvent(EventEvalResult, frontendMap("surfaceId", b.ID(), "requestId", req.RequestID, "error", "ReferenceError"))

	if err := <-errCh; err == nil || err.Error() != "ReferenceError" {
		t.Fatalf("EvaluateScript() error = %v, want ReferenceError", err)
	}
}

func TestQueryTimeout(t *testing.T) {
	hub, _ := newTestHub(10 * time.Millisecond)
	b := hub.NewSurface()

	errCh := make(chan error, 1)
	b.EvaluateScript("1", func(_ string, err error) { errCh <- err })

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("error = %v, want ErrTimeout", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("query did not time out")
	}
}

func TestCloseFailsPendingQueries(t *testing.T) {
	hub, em := newTestHub(time.Minute)
	b := hub.NewSurface()

	errCh := make(chan error, 2)
	b.Cookies("google.com", func(_ []Cookie, err error) { errCh <- err })
	b.Close()
	b.Cookies("google.com", func(_ []Cookie, err error) { errCh <- err })

	for range 2 {
		if err := <-errCh; !errors.Is(err, ErrClosed) {
			t.Fatalf("error = %v, want ErrClosed", err)
		}
	}
	if _, ok := em.last(EventClose); !ok {
		t.Fatal("close event not emitted")
	}
}

func TestSignalsReachObserver(t *testing.T) {
	hub, em := newTestHub(0)
	b := hub.NewSurface()
	var got []string
	b.SetObserver(Observer{
		InputFocused:  func() { got = append(got, "focused") },
		EscapePressed: func() { got = append(got, "escape") },
	})

	hub.HandleEvent(EventInputFocused, SignalPayload{SurfaceID: b.ID()})
	hub.HandleEvent(EventEscape, frontendMap("surfaceId", b.ID()))
	if len(got) != 2 || got[0] != "focused" || got[1] != "escape" {
		t.Fatalf("signals = %v", got)
	}

	b.SetAcceptsFocus(true)
	if !b.AcceptsFocus() {
		t.Fatal("AcceptsFocus() = false after SetAcceptsFocus(true)")
	}
	payload, _ := em.last(EventAcceptsFocus)
	if p := payload.(AcceptsFocusPayload); !p.Accepts || p.SurfaceID != b.ID() {
		t.Fatalf("accepts-focus payload = %+v", p)
	}
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	hub, _ := newTestHub(0)
	hub.NewSurface()
	if hub.HandleEvent(EventState) {
		t.Fatal("event without payload was routed")
	}
	if hub.HandleEvent(EventState, "not an object") {
		t.Fatal("malformed payload was routed")
	}
	if hub.HandleEvent("surface:unknown", SignalPayload{}) {
		t.Fatal("unknown event was routed")
	}
}

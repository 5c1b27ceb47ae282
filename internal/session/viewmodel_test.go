package session

import (
	"errors"
	"slices"
	"testing"
	"time"

	"glimpse/internal/search"
	"glimpse/internal/surface"
	"glimpse/internal/surface/surfacetest"
	"glimpse/internal/uiloop"
)

type recordedHistory struct{ queries []string }

func (h *recordedHistory) Record(q string) error {
	h.queries = append(h.queries, q)
	return nil
}

type fixture struct {
	vm      *ViewModel
	surface *surfacetest.Fake
	sched   *uiloop.Manual
	history *recordedHistory
	states  []State
}

func newFixture(t *testing.T, providerID string) *fixture {
	t.Helper()
	f := &fixture{
		surface: surfacetest.New("surface-1"),
		sched:   uiloop.NewManual(),
		history: &recordedHistory{},
	}
	f.vm = New(Config{
		Surface:   f.surface,
		Provider:  search.MustLookup(providerID),
		History:   f.history,
		Scheduler: f.sched,
	})
	f.vm.Subscribe(func(s State) { f.states = append(f.states, s) })
	t.Cleanup(f.vm.Close)
	return f
}

func TestNewLoadsHomeAndRefusesFocus(t *testing.T) {
	f := newFixture(t, search.Google)

	if !slices.Equal(f.surface.Loads, []string{"https://www.google.com"}) {
		t.Fatalf("Loads = %v, want home page", f.surface.Loads)
	}
	if f.surface.AcceptsFocus() {
		t.Fatal("surface accepts focus on creation")
	}
	if st := f.vm.State(); st.SurfaceID != "surface-1" || st.ProviderID != search.Google {
		t.Fatalf("State() = %+v", st)
	}
}

func TestPerformSearch(t *testing.T) {
	f := newFixture(t, search.Google)

	f.vm.SetQuery("   ")
	f.vm.PerformSearch()
	if len(f.surface.Loads) != 1 || len(f.history.queries) != 0 {
		t.Fatalf("blank search navigated or recorded: loads %v history %v", f.surface.Loads, f.history.queries)
	}

	f.vm.SetQuery("  golang generics ")
	f.vm.PerformSearch()
	if got := f.surface.Loads[len(f.surface.Loads)-1]; got != "https://www.google.com/search?q=golang+generics" {
		t.Fatalf("last load = %q", got)
	}
	if !slices.Equal(f.history.queries, []string{"golang generics"}) {
		t.Fatalf("history = %v", f.history.queries)
	}
}

func TestNavigationFlagsChangeOnlyThroughSurfaceEvents(t *testing.T) {
	f := newFixture(t, search.Google)

	f.surface.SetHistory(true, false)
	if f.vm.State().CanGoBack {
		t.Fatal("CanGoBack changed without a navigation event")
	}
	f.vm.GoBack()
	if len(f.surface.Navigations) != 0 {
		t.Fatal("GoBack navigated while CanGoBack was false")
	}

	f.surface.Commit()
	if f.vm.State().CanGoBack {
		t.Fatal("commit applied before the scheduler ran")
	}
	f.sched.RunPending()
	if !f.vm.State().CanGoBack || f.vm.State().CanGoForward {
		t.Fatalf("State() = %+v after commit", f.vm.State())
	}

	f.vm.GoBack()
	f.vm.GoForward()
	if !slices.Equal(f.surface.Navigations, []string{"back"}) {
		t.Fatalf("Navigations = %v, want [back]", f.surface.Navigations)
	}
}

func TestDidFinishBlursWhenFocusNotHandedOff(t *testing.T) {
	f := newFixture(t, search.Google)

	f.surface.Finish()
	f.sched.RunPending()

	if n := f.surface.ScriptsContaining("blur()"); n != 1 {
		t.Fatalf("blur scripts = %d, want 1", n)
	}
}

func TestSignInDetection(t *testing.T) {
	tests := []struct {
		name    string
		cookies []surface.Cookie
		err     error
		want    bool
	}{
		{name: "session cookie on provider domain", cookies: []surface.Cookie{{Name: "SSID", Domain: ".google.com"}}, want: true},
		{name: "session cookie on other domain", cookies: []surface.Cookie{{Name: "SID", Domain: ".example.com"}}},
		{name: "unrelated cookie", cookies: []surface.Cookie{{Name: "NID", Domain: ".google.com"}}},
		{name: "query failure", err: errors.New("store unavailable")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, search.Google)
			f.surface.Finish()
			f.sched.RunPending()

			if n := f.surface.AnswerCookies(tt.cookies, tt.err); n != 1 {
				t.Fatalf("cookie queries = %d, want 1", n)
			}
			f.sched.RunPending()
			if got := f.vm.State().SignedIn; got != tt.want {
				t.Fatalf("SignedIn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderWithoutSessionSkipsCookieQuery(t *testing.T) {
	f := newFixture(t, search.DuckDuckGo)
	f.surface.Finish()
	f.sched.RunPending()
	if n := f.surface.AnswerCookies(nil, nil); n != 0 {
		t.Fatalf("cookie queries = %d, want 0", n)
	}
}

func TestNavigateToHomeFocusesAfterLoad(t *testing.T) {
	f := newFixture(t, search.Google)
	f.vm.SetQuery("cats")

	f.vm.NavigateToHome()
	if f.vm.State().Query != "" {
		t.Fatal("query not cleared")
	}
	tick := f.vm.State().FocusTick

	f.surface.Finish()
	f.sched.RunPending()
	if f.vm.State().FocusTick != tick+1 {
		t.Fatalf("FocusTick = %d, want %d", f.vm.State().FocusTick, tick+1)
	}

	f.surface.Finish()
	f.sched.RunPending()
	if f.vm.State().FocusTick != tick+1 {
		t.Fatal("focus requested again on a later load")
	}
}

func TestNavigateToSignIn(t *testing.T) {
	f := newFixture(t, search.Google)
	f.vm.NavigateToSignIn()
	if got := f.surface.Loads[len(f.surface.Loads)-1]; got != "https://accounts.google.com" {
		t.Fatalf("last load = %q", got)
	}

	ddg := newFixture(t, search.DuckDuckGo)
	ddg.vm.NavigateToSignIn()
	if len(ddg.surface.Loads) != 1 {
		t.Fatalf("provider without sign-in navigated: %v", ddg.surface.Loads)
	}
}

func TestHandOffFocusRevokesOnAcknowledgment(t *testing.T) {
	f := newFixture(t, search.Google)

	f.vm.HandOffFocus()
	if !f.surface.AcceptsFocus() || f.surface.FocusCalls != 1 {
		t.Fatalf("surface not focused: accepts %v calls %d", f.surface.AcceptsFocus(), f.surface.FocusCalls)
	}
	if f.vm.State().FocusTarget != FocusSurface {
		t.Fatalf("FocusTarget = %v, want surface", f.vm.State().FocusTarget)
	}

	f.sched.Advance(149 * time.Millisecond)
	if f.surface.ScriptsContaining(`textarea[name=\"q\"], input[name=\"q\"]`) != 0 {
		t.Fatal("focus script ran before the handoff delay")
	}
	f.sched.Advance(time.Millisecond)
	if f.surface.ScriptsContaining(`textarea[name=\"q\"], input[name=\"q\"]`) != 1 {
		t.Fatalf("focus script not run at 150ms: %v", f.surface.Scripts)
	}

	f.surface.AnswerScripts(focusScriptFocused, nil)
	f.sched.RunPending()
	if f.surface.AcceptsFocus() {
		t.Fatal("focus acceptance not revoked on acknowledgment")
	}
	if f.sched.PendingTimers() != 0 {
		t.Fatalf("PendingTimers() = %d, want 0 after acknowledgment", f.sched.PendingTimers())
	}
}

func TestHandOffFocusRevokesAfterFallbackDelay(t *testing.T) {
	f := newFixture(t, search.Google)

	f.vm.HandOffFocus()
	f.sched.Advance(150 * time.Millisecond)
	f.surface.AnswerScripts(focusScriptMissing, nil)
	f.sched.RunPending()
	if !f.surface.AcceptsFocus() {
		t.Fatal("acceptance revoked without acknowledgment before the fallback")
	}

	f.sched.Advance(350 * time.Millisecond)
	if f.surface.AcceptsFocus() {
		t.Fatal("acceptance not revoked at 500ms")
	}
	if f.vm.HandoffActive() {
		t.Fatal("HandoffActive() = true after revoke")
	}
}

func TestHandOffFocusReturnsToNativeField(t *testing.T) {
	f := newFixture(t, search.Google)
	f.vm.HandOffFocus()
	f.surface.AckInputFocused()
	f.sched.RunPending()
	tick := f.vm.State().FocusTick

	f.vm.HandOffFocus()

	if f.vm.State().FocusTick != tick+1 {
		t.Fatalf("FocusTick = %d, want %d", f.vm.State().FocusTick, tick+1)
	}
	if f.vm.State().FocusTarget != FocusNativeField {
		t.Fatalf("FocusTarget = %v, want native field", f.vm.State().FocusTarget)
	}
	if f.surface.FocusCalls != 1 {
		t.Fatalf("surface focused again: %d calls", f.surface.FocusCalls)
	}
}

func TestCloseIgnoresLateCallbacks(t *testing.T) {
	f := newFixture(t, search.Google)
	f.vm.HandOffFocus()
	f.surface.SetHistory(true, true)
	f.surface.Commit()
	f.surface.Finish()

	f.vm.Close()
	f.vm.Close()
	before := f.vm.State()
	f.sched.Advance(time.Second)
	f.surface.AnswerCookies([]surface.Cookie{{Name: "SID", Domain: ".google.com"}}, nil)
	f.sched.RunPending()

	if f.vm.State() != before {
		t.Fatalf("state changed after Close: %+v -> %+v", before, f.vm.State())
	}
	if !f.surface.Closed() {
		t.Fatal("surface not closed")
	}
	if f.sched.PendingTimers() != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", f.sched.PendingTimers())
	}
}

func TestEscapeInsideSurfaceCallsOnEscape(t *testing.T) {
	sched := uiloop.NewManual()
	fake := surfacetest.New("s")
	escaped := 0
	vm := New(Config{Surface: fake, Scheduler: sched, OnEscape: func() { escaped++ }})
	defer vm.Close()

	fake.PressEscape()
	if escaped != 0 {
		t.Fatal("OnEscape ran off the scheduler")
	}
	sched.RunPending()
	if escaped != 1 {
		t.Fatalf("OnEscape calls = %d, want 1", escaped)
	}
}

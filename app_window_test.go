package main

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/overlay"
	"glimpse/internal/testutil"
)

func newStubbedWindow(t *testing.T, grace time.Duration) (*overlayWindow, *runtimeStub) {
	t.Helper()
	rt := stubRuntime(t)
	app := NewApp("", config.DefaultConfig(), nil)
	app.setRuntimeContext(context.Background())
	return newOverlayWindow(app, grace), rt
}

func TestOverlayWindowCalls(t *testing.T) {
	w, rt := newStubbedWindow(t, 0)

	w.Prepare(overlay.Style{MinWidth: 720, MinHeight: 480, Floating: true})
	w.Center()
	w.SetOpacity(0)
	w.Show()
	w.Activate()
	w.Hide()

	want := []string{"min-size:720x480", "on-top:true", "center", "show", "unminimise", "show", "hide"}
	if !slices.Equal(rt.windowCalls, want) {
		t.Fatalf("window calls = %v, want %v", rt.windowCalls, want)
	}
	payload, ok := rt.lastEmitted(eventOverlayOpacity)
	if !ok || payload.(opacityPayload).Opacity != 0 {
		t.Fatalf("opacity event = %#v", payload)
	}
}

func TestOverlayWindowFadeCompletesOnAck(t *testing.T) {
	w, rt := newStubbedWindow(t, time.Hour)
	var done atomic.Int32

	w.Fade(overlay.FadeRequest{To: 1, Duration: 180 * time.Millisecond, Curve: overlay.EaseOut}, func() { done.Add(1) })

	payload, ok := rt.lastEmitted(eventOverlayFade)
	if !ok {
		t.Fatal("no fade event emitted")
	}
	fade := payload.(fadePayload)
	if fade.To != 1 || fade.DurationMS != 180 || fade.Easing != "ease-out" || fade.ID == "" {
		t.Fatalf("fade payload = %+v", fade)
	}
	if done.Load() != 0 {
		t.Fatal("fade completed before acknowledgment")
	}

	w.finishFade(fade.ID, false)
	w.finishFade(fade.ID, false)
	w.finishFade("unknown", false)
	if got := done.Load(); got != 1 {
		t.Fatalf("done calls = %d, want 1", got)
	}
}

func TestOverlayWindowFadeFallsBackToTimer(t *testing.T) {
	w, _ := newStubbedWindow(t, 10*time.Millisecond)
	var done atomic.Int32

	w.Fade(overlay.FadeRequest{To: 0, Duration: 10 * time.Millisecond, Curve: overlay.EaseIn}, func() { done.Add(1) })
	testutil.Eventually(t, waitTimeout, func() bool { return done.Load() == 1 })
}

func TestOverlayWindowWithoutRuntimeCompletesImmediately(t *testing.T) {
	rt := stubRuntime(t)
	w := newOverlayWindow(NewApp("", config.DefaultConfig(), nil), time.Hour)
	done := false

	w.Fade(overlay.FadeRequest{To: 1, Duration: time.Second}, func() { done = true })
	w.Show()

	if !done {
		t.Fatal("fade without runtime did not complete")
	}
	if len(rt.windowCalls) != 0 || len(rt.emitted(eventOverlayFade)) != 0 {
		t.Fatal("runtime was called without a context")
	}
}

func TestOverlayWindowCancelPendingFades(t *testing.T) {
	w, rt := newStubbedWindow(t, time.Hour)
	done := false
	w.Fade(overlay.FadeRequest{To: 1, Duration: time.Millisecond}, func() { done = true })

	w.cancelPendingFades()
	payload, _ := rt.lastEmitted(eventOverlayFade)
	w.finishFade(payload.(fadePayload).ID, false)
	if done {
		t.Fatal("cancelled fade completed")
	}
}

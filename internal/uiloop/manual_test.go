package uiloop

import (
	"testing"
	"time"
)

func TestManualRunPendingDrainsNestedPosts(t *testing.T) {
	m := NewManual()
	var order []string
	m.Post(func() {
		order = append(order, "a")
		m.Post(func() { order = append(order, "c") })
	})
	m.Post(func() { order = append(order, "b") })

	if n := m.RunPending(); n != 3 {
		t.Fatalf("RunPending() = %d, want 3", n)
	}
	if got := len(order); got != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("order = %v, want [a b c]", order)
	}
}

func TestManualAdvanceFiresDueTimersInOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(150*time.Millisecond, func() { order = append(order, "late") })
	m.After(50*time.Millisecond, func() { order = append(order, "early") })
	cancel := m.After(100*time.Millisecond, func() { order = append(order, "cancelled") })
	cancel()

	m.Advance(100 * time.Millisecond)
	if len(order) != 1 || order[0] != "early" {
		t.Fatalf("after 100ms order = %v, want [early]", order)
	}
	if m.PendingTimers() != 1 {
		t.Fatalf("PendingTimers() = %d, want 1", m.PendingTimers())
	}

	m.Advance(50 * time.Millisecond)
	if len(order) != 2 || order[1] != "late" {
		t.Fatalf("after 150ms order = %v, want [early late]", order)
	}
	if m.Now() != 150*time.Millisecond {
		t.Fatalf("Now() = %v, want 150ms", m.Now())
	}
}

func TestManualTimerScheduledFromTimer(t *testing.T) {
	m := NewManual()
	fired := false
	m.After(10*time.Millisecond, func() {
		m.After(10*time.Millisecond, func() { fired = true })
	})

	m.Advance(20 * time.Millisecond)
	if !fired {
		t.Fatal("chained timer did not fire within the advanced window")
	}
}

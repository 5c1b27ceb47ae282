package testutil

import (
	"testing"
	"time"
)

// Eventually polls cond every millisecond until it returns true, failing the
// test once timeout elapses. cond runs on the test goroutine, so it may
// drain a manual scheduler between checks.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s", timeout)
		}
		time.Sleep(time.Millisecond)
	}
}

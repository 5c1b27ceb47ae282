package workerutil

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunWithPanicRecoveryNormalExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var panics atomic.Int32

	RunWithPanicRecovery(ctx, "normal", &wg, func(ctx context.Context) {
		<-ctx.Done()
	}, RecoveryOptions{
		OnPanic: func(string, int) { panics.Add(1) },
	})

	cancel()
	wg.Wait()

	if panics.Load() != 0 {
		t.Fatalf("OnPanic calls = %d, want 0", panics.Load())
	}
}

func TestRunWithPanicRecoveryRestartsAfterPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	var runs atomic.Int32
	var attempts []int
	var mu sync.Mutex

	RunWithPanicRecovery(ctx, "restart", &wg, func(context.Context) {
		if runs.Add(1) == 1 {
			panic("first run fails")
		}
	}, RecoveryOptions{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		MaxRetries:     3,
		OnPanic: func(_ string, attempt int) {
			mu.Lock()
			attempts = append(attempts, attempt)
			mu.Unlock()
		},
	})
	wg.Wait()

	if runs.Load() != 2 {
		t.Fatalf("runs = %d, want 2", runs.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(attempts) != 1 || attempts[0] != 1 {
		t.Fatalf("OnPanic attempts = %v, want [1]", attempts)
	}
}

func TestRunWithPanicRecoveryGivesUpAfterMaxRetries(t *testing.T) {
	var wg sync.WaitGroup
	var runs atomic.Int32
	fatal := make(chan int, 1)

	RunWithPanicRecovery(context.Background(), "fatal", &wg, func(context.Context) {
		runs.Add(1)
		panic("always")
	}, RecoveryOptions{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		MaxRetries:     3,
		OnFatal:        func(_ string, maxRetries int) { fatal <- maxRetries },
	})
	wg.Wait()

	if runs.Load() != 3 {
		t.Fatalf("runs = %d, want 3", runs.Load())
	}
	select {
	case got := <-fatal:
		if got != 3 {
			t.Fatalf("OnFatal maxRetries = %d, want 3", got)
		}
	default:
		t.Fatal("OnFatal was not called")
	}
}

func TestRunWithPanicRecoveryStopsOnShutdown(t *testing.T) {
	var wg sync.WaitGroup
	var runs atomic.Int32
	var panics atomic.Int32

	RunWithPanicRecovery(context.Background(), "shutdown", &wg, func(context.Context) {
		runs.Add(1)
		panic("during shutdown")
	}, RecoveryOptions{
		InitialBackoff: time.Millisecond,
		IsShutdown:     func() bool { return true },
		OnPanic:        func(string, int) { panics.Add(1) },
	})
	wg.Wait()

	if runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}
	if panics.Load() != 0 {
		t.Fatalf("OnPanic calls = %d, want 0 during shutdown", panics.Load())
	}
}

func TestApplyDefaults(t *testing.T) {
	opts := RecoveryOptions{}.applyDefaults()
	if opts.InitialBackoff != defaultInitialBackoff || opts.MaxBackoff != defaultMaxBackoff || opts.MaxRetries != defaultMaxRetries {
		t.Fatalf("applyDefaults() = %+v", opts)
	}

	swapped := RecoveryOptions{InitialBackoff: time.Second, MaxBackoff: time.Millisecond}.applyDefaults()
	if swapped.MaxBackoff != time.Second {
		t.Fatalf("MaxBackoff = %v, want %v", swapped.MaxBackoff, time.Second)
	}
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		name    string
		current time.Duration
		max     time.Duration
		want    time.Duration
	}{
		{name: "zero resets", current: 0, max: time.Second, want: defaultInitialBackoff},
		{name: "doubles", current: 100 * time.Millisecond, max: time.Second, want: 200 * time.Millisecond},
		{name: "caps", current: 800 * time.Millisecond, max: time.Second, want: time.Second},
		{name: "already at cap", current: time.Second, max: time.Second, want: time.Second},
		{name: "overflow", current: time.Duration(math.MaxInt64/2 + 1), max: time.Duration(math.MaxInt64), want: time.Duration(math.MaxInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextBackoff(tt.current, tt.max); got != tt.want {
				t.Fatalf("nextBackoff(%v, %v) = %v, want %v", tt.current, tt.max, got, tt.want)
			}
		})
	}
}

package hotkeys

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"glimpse/internal/uiloop"
	"glimpse/internal/workerutil"
)

// OwnerTag marks firings that belong to Glimpse ('GLMP').
const OwnerTag uint32 = 0x474C4D50

// Signature identifies one binding. Backends echo it back on every firing.
type Signature struct {
	Owner      uint32
	Generation uint64
}

// Handle is a live OS registration.
type Handle interface {
	Release() error
}

// Backend binds shortcuts at the OS level. Bind must deliver sig into sink
// on every key press until the handle is released, and must never block
// on a full sink.
type Backend interface {
	Bind(s Shortcut, sig Signature, sink chan<- Signature) (Handle, error)
}

type activeBinding struct {
	shortcut Shortcut
	sig      Signature
	handle   Handle
}

// Center owns the single process-wide global hotkey. One listener goroutine
// serves the center for its whole lifetime; the callback always runs on the
// scheduler.
type Center struct {
	backend Backend
	sched   uiloop.Scheduler
	sink    chan Signature

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu         sync.Mutex
	handler    func()
	active     *activeBinding
	generation uint64
	closed     bool
}

// NewCenter starts the listener and returns an empty center.
func NewCenter(backend Backend, sched uiloop.Scheduler) *Center {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Center{
		backend: backend,
		sched:   sched,
		sink:    make(chan Signature, 8),
		cancel:  cancel,
	}
	workerutil.RunWithPanicRecovery(ctx, "hotkey-listener", &c.wg, c.listen, workerutil.RecoveryOptions{
		IsShutdown: c.isClosed,
	})
	return c
}

func (c *Center) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-c.sink:
			c.deliver(sig)
		}
	}
}

func (c *Center) deliver(sig Signature) {
	if sig.Owner != OwnerTag {
		slog.Debug("[hotkey] DEBUG dropping firing with foreign owner", "owner", sig.Owner)
		return
	}
	c.mu.Lock()
	if c.active == nil || c.active.sig != sig || c.handler == nil {
		c.mu.Unlock()
		slog.Debug("[hotkey] DEBUG dropping stale firing", "generation", sig.Generation)
		return
	}
	fn := c.handler
	c.mu.Unlock()
	c.sched.Post(fn)
}

// Register replaces any existing binding, stores onFire and binds s.
// On failure the handler is kept but nothing is bound.
func (c *Center) Register(s Shortcut, onFire func()) error {
	if onFire == nil {
		return errors.New("onFire callback is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.releaseLocked()
	c.handler = onFire
	return c.bindLocked(s)
}

// Update rebinds the stored callback to s.
func (c *Center) Update(s Shortcut) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.handler == nil {
		return ErrHandlerMissing
	}
	c.releaseLocked()
	return c.bindLocked(s)
}

// Unregister removes the binding and forgets the handler. Idempotent.
func (c *Center) Unregister() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
	c.handler = nil
}

// Active returns the live binding, if any.
func (c *Center) Active() (Shortcut, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Shortcut{}, false
	}
	return c.active.shortcut, true
}

// Close releases the binding and stops the listener. Idempotent.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.releaseLocked()
		c.handler = nil
		c.mu.Unlock()
		c.cancel()
		c.wg.Wait()
	})
}

func (c *Center) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Center) bindLocked(s Shortcut) error {
	c.generation++
	sig := Signature{Owner: OwnerTag, Generation: c.generation}
	handle, err := c.backend.Bind(s, sig, c.sink)
	if err != nil {
		regErr := asRegistrationError(s, err)
		slog.Warn("[hotkey] registration failed", "shortcut", s.String(), "code", regErr.Code, "error", err)
		return regErr
	}
	c.active = &activeBinding{shortcut: s, sig: sig, handle: handle}
	slog.Info("[hotkey] registered", "shortcut", s.String(), "generation", sig.Generation)
	return nil
}

func (c *Center) releaseLocked() {
	if c.active == nil {
		return
	}
	ab := c.active
	c.active = nil
	if err := ab.handle.Release(); err != nil {
		slog.Warn("[hotkey] DEBUG release failed", "shortcut", ab.shortcut.String(), "error", err)
	}
}

// Package observe provides the explicit change-notification contract used
// between Glimpse components and the presentation layer.
package observe

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Subject fans a value out to registered observers in registration order.
// The zero value is ready to use.
type Subject[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	observers []observer[T]
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is idempotent.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Publish delivers value to every observer on the calling goroutine.
// Observers are snapshotted first, so an observer may unsubscribe itself
// (or subscribe others) without deadlocking. A panicking observer is logged
// and does not prevent delivery to the rest.
func (s *Subject[T]) Publish(value T) {
	s.mu.Lock()
	snapshot := make([]observer[T], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.Unlock()

	for _, o := range snapshot {
		deliver(o.fn, value)
	}
}

// Len reports the number of registered observers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func deliver[T any](fn func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[observe] observer panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn(value)
}

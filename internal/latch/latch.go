// Package latch provides a one-shot, awaitable signal carrying a value.
//
// A Latch settles exactly once. Any number of goroutines may wait on it or
// subscribe to it, before or after it fires.
package latch

import (
	"context"
	"sync"
)

// Latch is a one-shot signal. The zero value is not usable; use New.
type Latch[T any] struct {
	once  sync.Once
	done  chan struct{}
	mu    sync.Mutex
	value T
	subs  []func(T)
}

// New returns an unfired latch.
func New[T any]() *Latch[T] {
	return &Latch[T]{done: make(chan struct{})}
}

// Fire settles the latch with v and runs every subscriber.
// Only the first call has any effect; it returns true, later calls return false.
func (l *Latch[T]) Fire(v T) bool {
	fired := false
	l.once.Do(func() {
		l.mu.Lock()
		l.value = v
		subs := l.subs
		l.subs = nil
		close(l.done)
		l.mu.Unlock()

		for _, fn := range subs {
			fn(v)
		}
		fired = true
	})
	return fired
}

// Done returns a channel closed when the latch fires.
func (l *Latch[T]) Done() <-chan struct{} {
	return l.done
}

// Fired reports whether the latch has fired.
func (l *Latch[T]) Fired() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Value returns the fired value. ok is false if the latch has not fired.
func (l *Latch[T]) Value() (v T, ok bool) {
	if !l.Fired() {
		return v, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, true
}

// Wait blocks until the latch fires or ctx is done.
func (l *Latch[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-l.done:
		v, _ := l.Value()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Subscribe registers fn to run once with the fired value.
// Subscribers registered before Fire run synchronously inside Fire, in
// registration order. If the latch already fired, fn runs immediately.
func (l *Latch[T]) Subscribe(fn func(T)) {
	l.mu.Lock()
	select {
	case <-l.done:
		v := l.value
		l.mu.Unlock()
		fn(v)
		return
	default:
	}
	l.subs = append(l.subs, fn)
	l.mu.Unlock()
}

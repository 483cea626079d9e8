// Package soundtest provides an in-memory sound.Backend for tests.
package soundtest

import (
	"context"
	"errors"
	"sync"

	"github.com/zjrosen/chime/internal/sound"
)

// ErrLoad is returned for sources marked as failing.
var ErrLoad = errors.New("soundtest: load failed")

// Handle records every call made on it.
type Handle struct {
	Source string

	mu       sync.Mutex
	volume   float64
	plays    int
	rewinds  int
	position int
	closed   bool
	onEnded  func()
	played   chan struct{}
}

// NewHandle returns a handle at full volume.
func NewHandle(source string) *Handle {
	return &Handle{Source: source, volume: 1, played: make(chan struct{}, 64)}
}

// Play implements sound.Handle.
func (h *Handle) Play() error {
	h.mu.Lock()
	h.plays++
	h.position++
	h.mu.Unlock()
	select {
	case h.played <- struct{}{}:
	default:
	}
	return nil
}

// Rewind implements sound.Handle.
func (h *Handle) Rewind() error {
	h.mu.Lock()
	h.rewinds++
	h.position = 0
	h.mu.Unlock()
	return nil
}

// Volume implements sound.Handle.
func (h *Handle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

// SetVolume implements sound.Handle.
func (h *Handle) SetVolume(v float64) {
	h.mu.Lock()
	h.volume = v
	h.mu.Unlock()
}

// OnEnded implements sound.Handle.
func (h *Handle) OnEnded(fn func()) {
	h.mu.Lock()
	h.onEnded = fn
	h.mu.Unlock()
}

// Close implements sound.Handle.
func (h *Handle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

// Finish simulates playback reaching the end and runs the ended callback.
func (h *Handle) Finish() {
	h.mu.Lock()
	fn := h.onEnded
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Plays returns how many times Play was called.
func (h *Handle) Plays() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays
}

// Rewinds returns how many times Rewind was called.
func (h *Handle) Rewinds() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rewinds
}

// Closed reports whether Close was called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// HasEndedCallback reports whether an ended callback is registered.
func (h *Handle) HasEndedCallback() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.onEnded != nil
}

// Played is signalled on every Play call.
func (h *Handle) Played() <-chan struct{} {
	return h.played
}

// Backend is a sound.Backend whose outcomes are scripted per source.
type Backend struct {
	mu      sync.Mutex
	fail    map[string]bool
	gates   map[string]chan struct{}
	handles map[string][]*Handle
	loads   []string
}

// NewBackend returns a backend that loads every source successfully.
func NewBackend() *Backend {
	return &Backend{
		fail:    make(map[string]bool),
		gates:   make(map[string]chan struct{}),
		handles: make(map[string][]*Handle),
	}
}

// Fail makes loads of source return ErrLoad.
func (b *Backend) Fail(source string) *Backend {
	b.mu.Lock()
	b.fail[source] = true
	b.mu.Unlock()
	return b
}

// Hold makes loads of source block until the returned function is called.
func (b *Backend) Hold(source string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[source] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Load implements sound.Backend.
func (b *Backend) Load(ctx context.Context, source string) (sound.Handle, error) {
	b.mu.Lock()
	b.loads = append(b.loads, source)
	gate := b.gates[source]
	fail := b.fail[source]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, ErrLoad
	}

	h := NewHandle(source)
	b.mu.Lock()
	b.handles[source] = append(b.handles[source], h)
	b.mu.Unlock()
	return h, nil
}

// Loads returns every source passed to Load, in call order.
func (b *Backend) Loads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.loads...)
}

// Handles returns the handles created for source, oldest first.
func (b *Backend) Handles(source string) []*Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Handle(nil), b.handles[source]...)
}

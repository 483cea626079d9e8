// Package playback selects and plays sounds for UI elements.
//
// Dispatcher.Play is the single playback entry point. It never returns an
// error and never panics: it is called from UI event handlers, so every
// failure is logged and the call becomes a no-op.
package playback

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/sound"
)

// Branch identifies which selection rule handled a call.
type Branch string

const (
	BranchCustom  Branch = "custom"
	BranchPreset  Branch = "preset"
	BranchDefault Branch = "default"
)

// Event describes a playback that was started.
type Event struct {
	ID     string
	Branch Branch
	Key    string // preset or default key; empty for custom
	Path   string // custom source; empty otherwise
	Volume float64
}

// Dispatcher plays sounds from a sound table.
type Dispatcher struct {
	ctx     context.Context
	backend sound.Backend
	table   atomic.Pointer[sound.Table]
	onPlay  func(Event)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver calls fn after every started playback. For custom sources it
// runs on the goroutine that loaded the transient handle.
func WithObserver(fn func(Event)) Option {
	return func(d *Dispatcher) { d.onPlay = fn }
}

// NewDispatcher creates a dispatcher with no table attached. Until Attach is
// called with a ready table, every Play is a no-op. ctx bounds the loads of
// one-off sources.
func NewDispatcher(ctx context.Context, backend sound.Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{ctx: ctx, backend: backend}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Attach sets the table Play reads from.
func (d *Dispatcher) Attach(t *sound.Table) {
	d.table.Store(t)
}

// Table returns the attached table, or nil.
func (d *Dispatcher) Table() *sound.Table {
	return d.table.Load()
}

// PlayKey plays a preset by key with an optional volume override.
func (d *Dispatcher) PlayKey(key string, volume *float64) {
	attrs := Attrs{AttrPreset: key}
	if volume != nil {
		attrs[AttrVolume] = fmt.Sprint(*volume)
	}
	d.Play(attrs)
}

// Play selects a sound for el and plays it. The first matching rule wins:
//   - a custom source plays on a transient handle that never enters the table;
//   - a preset present in the table is rewound and played, with a volume
//     override restored when playback ends;
//   - otherwise the default sound is rewound and played.
func (d *Dispatcher) Play(el Element) {
	id := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatPlayback, "Playback panicked", "id", id, "panic", r)
		}
	}()

	table := d.table.Load()
	if table == nil || !table.IsReady() {
		log.Warn(log.CatPlayback, "Sound system not ready; skipping playback", "id", id)
		return
	}
	def, ok := table.Default()
	if !ok {
		log.Warn(log.CatPlayback, "No default sound available; skipping playback", "id", id)
		return
	}

	prefs := ReadPrefs(el)
	log.Debug(log.CatPlayback, "Play requested", "id", id,
		"sfx", prefs.Path, "preset", prefs.Preset, "volume", prefs.Volume, "hasVolume", prefs.HasVolume)

	if prefs.Path != "" {
		vol := def.Handle.Volume()
		if prefs.HasVolume {
			vol = prefs.Volume
		}
		go d.playCustom(id, prefs.Path, vol)
		return
	}

	if prefs.Preset != "" {
		if e, ok := table.Get(prefs.Preset); ok {
			d.playPreset(id, e, prefs)
			return
		}
		log.Debug(log.CatPlayback, "Unknown preset; using default", "id", id, "preset", prefs.Preset)
	}

	d.start(id, def.Handle, Event{ID: id, Branch: BranchDefault, Key: def.Key, Volume: def.Handle.Volume()})
}

func (d *Dispatcher) playCustom(id, path string, vol float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatPlayback, "One-off playback panicked", "id", id, "path", path, "panic", r)
		}
	}()

	h, err := d.backend.Load(d.ctx, path)
	if err != nil {
		log.Warn(log.CatPlayback, "One-off sound failed to load", "id", id, "path", path, "error", err)
		return
	}
	h.SetVolume(vol)
	h.OnEnded(func() {
		if err := h.Close(); err != nil {
			log.Debug(log.CatPlayback, "Failed to close one-off sound", "id", id, "path", path, "error", err)
		}
	})
	if err := h.Play(); err != nil {
		log.Warn(log.CatPlayback, "One-off sound failed to play", "id", id, "path", path, "error", err)
		_ = h.Close()
		return
	}
	log.Debug(log.CatPlayback, "Playing one-off sound", "id", id, "path", path, "volume", vol)
	d.notify(Event{ID: id, Branch: BranchCustom, Path: path, Volume: vol})
}

// playPreset applies a one-call volume override and restores the previous
// volume when playback ends. Two overlapping overridden plays of the same
// preset share one ended callback: the later call remembers the earlier
// override as its "previous" volume and its restore replaces the earlier one.
func (d *Dispatcher) playPreset(id string, e *sound.Entry, prefs Prefs) {
	h := e.Handle
	previous := h.Volume()
	if prefs.HasVolume {
		h.SetVolume(prefs.Volume)
	}

	if !d.start(id, h, Event{ID: id, Branch: BranchPreset, Key: e.Key, Volume: h.Volume()}) {
		if prefs.HasVolume {
			h.SetVolume(previous)
		}
		return
	}

	if prefs.HasVolume {
		h.OnEnded(func() {
			h.SetVolume(previous)
			h.OnEnded(nil)
			log.Debug(log.CatPlayback, "Restored preset volume", "id", id, "key", e.Key, "volume", previous)
		})
	}
}

// start rewinds and plays h, reporting whether playback began.
func (d *Dispatcher) start(id string, h sound.Handle, ev Event) bool {
	if err := h.Rewind(); err != nil {
		log.Warn(log.CatPlayback, "Failed to rewind sound", "id", id, "key", ev.Key, "error", err)
	}
	if err := h.Play(); err != nil {
		log.Warn(log.CatPlayback, "Sound failed to play", "id", id, "key", ev.Key, "error", err)
		return false
	}
	log.Debug(log.CatPlayback, "Playing sound", "id", id, "branch", ev.Branch, "key", ev.Key, "volume", ev.Volume)
	d.notify(ev)
	return true
}

func (d *Dispatcher) notify(ev Event) {
	if d.onPlay != nil {
		d.onPlay(ev)
	}
}

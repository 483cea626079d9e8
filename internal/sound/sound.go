// Package sound builds the sound table from an asset registry.
//
// The Builder asks a Backend to load every registry entry concurrently.
// Each load settles as either "can play" or an error; once every entry has
// settled the table's readiness latch fires exactly once. Failed entries are
// logged and left out of the table for the rest of the session.
package sound

import (
	"context"
	"errors"
)

// DefaultVolume is applied to every entry once it can play.
const DefaultVolume = 0.5

// Reserved table keys.
const (
	// ClickKey names the preset aliased as DefaultKey after loading.
	ClickKey = "click"
	// DefaultKey is the fallback sound for elements without preferences.
	DefaultKey = "default"
)

// ErrUnsupportedFormat is returned by backends for audio they cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Handle is a loaded, playable audio resource.
type Handle interface {
	// Play starts playback from the current position.
	Play() error
	// Rewind moves the playback position to the start.
	Rewind() error
	// Volume returns the current volume in [0, 1].
	Volume() float64
	// SetVolume sets the volume in [0, 1].
	SetVolume(v float64)
	// OnEnded registers fn to run when playback reaches the end, replacing
	// any previously registered callback. A nil fn clears it.
	OnEnded(fn func())
	// Close releases the resource.
	Close() error
}

// Backend loads audio sources into handles. Load blocks until the source
// can play through or fails.
type Backend interface {
	Load(ctx context.Context, source string) (Handle, error)
}

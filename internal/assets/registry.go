package assets

import (
	"maps"
	"slices"
)

// ManifestKey is the reserved manifest entry listing descriptor locations.
// It is never a sound key.
const ManifestKey = "assetList"

// Registry maps sound keys to audio source locations. It is immutable.
type Registry struct {
	entries map[string]string
}

// NewRegistry copies entries into a Registry, dropping the reserved manifest key.
func NewRegistry(entries map[string]string) Registry {
	r := Registry{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		if k == ManifestKey {
			continue
		}
		r.entries[k] = v
	}
	return r
}

// Source returns the location registered for key.
func (r Registry) Source(key string) (string, bool) {
	v, ok := r.entries[key]
	return v, ok
}

// Keys returns the sound keys in sorted order.
func (r Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Len returns the number of sound keys.
func (r Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the key→location mapping.
func (r Registry) Entries() map[string]string {
	return maps.Clone(r.entries)
}

package sound

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/zjrosen/chime/internal/latch"
)

// Entry is one loaded sound.
type Entry struct {
	Key           string
	Source        string
	Handle        Handle
	DefaultVolume float64
}

// Summary describes a finished build. It is the readiness latch value.
type Summary struct {
	Total    int
	Loaded   int
	Failed   int
	Elapsed  time.Duration
	HasClick bool
}

// Table maps sound keys to loaded entries. Entries are added only by the
// Builder and never removed.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	finalizeOnce sync.Once
	ready        *latch.Latch[Summary]
}

// NewTable returns an empty, unready table.
func NewTable() *Table {
	return &Table{
		entries: make(map[string]*Entry),
		ready:   latch.New[Summary](),
	}
}

// Get returns the entry for key.
func (t *Table) Get(key string) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[key]
	return e, ok
}

// Default returns the entry aliased as DefaultKey, if any.
func (t *Table) Default() (*Entry, bool) {
	return t.Get(DefaultKey)
}

// Keys returns every key in sorted order, including DefaultKey when set.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.entries))
}

// Len returns the number of keys.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Ready returns the readiness latch.
func (t *Table) Ready() *latch.Latch[Summary] {
	return t.ready
}

// IsReady reports whether the table has been finalized.
func (t *Table) IsReady() bool {
	return t.ready.Fired()
}

func (t *Table) put(e *Entry) {
	t.mu.Lock()
	t.entries[e.Key] = e
	t.mu.Unlock()
}

// finalize aliases click as default and fires readiness. Only the first
// call has any effect.
func (t *Table) finalize(s Summary) bool {
	fired := false
	t.finalizeOnce.Do(func() {
		t.mu.Lock()
		if click, ok := t.entries[ClickKey]; ok {
			t.entries[DefaultKey] = click
			s.HasClick = true
		}
		t.mu.Unlock()
		fired = t.ready.Fire(s)
	})
	return fired
}

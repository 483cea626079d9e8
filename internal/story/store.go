// Package story holds the story variables the host engine exposes to the
// sound system.
package story

import (
	"fmt"
	"maps"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a concurrency-safe set of story variables.
type Store struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewStore returns a store seeded with a copy of vars.
func NewStore(vars map[string]any) *Store {
	s := &Store{vars: make(map[string]any, len(vars))}
	maps.Copy(s.vars, vars)
	return s
}

// Get returns a variable.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Set assigns a variable.
func (s *Store) Set(name string, v any) {
	s.mu.Lock()
	s.vars[name] = v
	s.mu.Unlock()
}

// Replace swaps the whole variable set.
func (s *Store) Replace(vars map[string]any) {
	next := make(map[string]any, len(vars))
	maps.Copy(next, vars)
	s.mu.Lock()
	s.vars = next
	s.mu.Unlock()
}

// Snapshot returns a copy of every variable.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.vars)
}

// Bool reports whether a variable holds the boolean true. Missing values and
// values of any other type, including the string "true", are false.
func (s *Store) Bool(name string) bool {
	v, ok := s.Get(name)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Toggle reads one boolean variable at call time.
type Toggle struct {
	store *Store
	name  string
}

// NewToggle returns a toggle bound to the named variable.
func NewToggle(store *Store, name string) Toggle {
	return Toggle{store: store, name: name}
}

// Enabled reports the variable's current value.
func (t Toggle) Enabled() bool {
	return t.store.Bool(t.name)
}

// ReadVars parses a YAML mapping of story variables.
func ReadVars(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story variables: %w", err)
	}
	vars := map[string]any{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing story variables %s: %w", path, err)
	}
	return vars, nil
}

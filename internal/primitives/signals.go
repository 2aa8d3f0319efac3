package primitives

import (
	"maps"
	"sync"
)

// Signals is a concurrent store of external readings (sensor values, flags)
// that guards consult at fire time. Hosts usually refresh it once per tick
// from a goroutine other than the one firing triggers.
type Signals struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewSignals creates an empty store.
func NewSignals() *Signals {
	return &Signals{data: make(map[string]any)}
}

// Get retrieves a reading by key.
func (s *Signals) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a reading.
func (s *Signals) Set(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]any)
	}
	s.data[key] = val
}

// Delete removes a reading.
func (s *Signals) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Bool reports a boolean reading. Missing or non-bool readings are false.
func (s *Signals) Bool(key string) bool {
	v, ok := s.Get(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Snapshot returns a copy of all readings.
func (s *Signals) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data)
}

// Replace swaps all readings for the contents of frame in one step: readers
// see either the previous frame or the new one, never a mix.
func (s *Signals) Replace(frame map[string]any) {
	next := maps.Clone(frame)
	if next == nil {
		next = make(map[string]any)
	}
	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
}

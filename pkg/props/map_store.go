package props

import "sync"

// MapStore is a concurrency-safe in-memory store.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapStore copies values into a new store.
func NewMapStore(values map[string]string) *MapStore {
	s := &MapStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get returns the value of key, or def when key is not set.
func (s *MapStore) Get(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores value under key.
func (s *MapStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
}

// Delete removes key.
func (s *MapStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Snapshot returns a copy of every stored value.
func (s *MapStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

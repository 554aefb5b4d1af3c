package devinfo

import "sync"

// ProgramCache stores compiled rule programs keyed by engine and expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache shares cache between the evaluators a reporter builds.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

// MemoryProgramCache is a concurrency-safe in-process ProgramCache.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache returns an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: map[string]any{}}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}

// Len reports the number of cached programs.
func (c *MemoryProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

package props

import "errors"

// Getter is the read contract shared by every store.
type Getter interface {
	Get(key, def string) string
}

type lookuper interface {
	Lookup(key string) (string, error)
}

// ChainStore consults stores in order and returns the first non-empty value.
type ChainStore struct {
	stores []Getter
}

// Chain builds a ChainStore; nil stores are skipped.
func Chain(stores ...Getter) *ChainStore {
	out := make([]Getter, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return &ChainStore{stores: out}
}

// Lookup returns the first non-empty value. Read errors are only returned
// when no store yields a value.
func (c *ChainStore) Lookup(key string) (string, error) {
	var errs []error
	for _, s := range c.stores {
		if l, ok := s.(lookuper); ok {
			value, err := l.Lookup(key)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if value != "" {
				return value, nil
			}
			continue
		}
		if value := s.Get(key, ""); value != "" {
			return value, nil
		}
	}
	return "", errors.Join(errs...)
}

// Get returns the first non-empty value, or def.
func (c *ChainStore) Get(key, def string) string {
	value, _ := c.Lookup(key)
	if value == "" {
		return def
	}
	return value
}

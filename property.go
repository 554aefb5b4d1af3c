package devinfo

// PropertyKey names a runtime configuration value, e.g. "ro.board.platform".
type PropertyKey string

// PropertyStore is the key-value property capability the resolver reads
// from. Get never fails: a missing or unreadable key yields def.
type PropertyStore interface {
	Get(key string, def string) string
}

// FallibleStore is implemented by stores that can report read failures.
// The resolver prefers Lookup when present and treats any error as an
// absent value.
type FallibleStore interface {
	Lookup(key string) (string, error)
}

// StoreFunc adapts a function to PropertyStore.
type StoreFunc func(key, def string) string

// Get implements PropertyStore.
func (f StoreFunc) Get(key, def string) string {
	if f == nil {
		return def
	}
	return f(key, def)
}

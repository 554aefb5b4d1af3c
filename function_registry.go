package devinfo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable exposed to rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores rule functions keyed by lower-cased name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// DefaultFunctions returns a registry holding the built-in rule helpers:
// coalesce, capitalize, storage, ram and maintainer.
func DefaultFunctions(s Strings) *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("coalesce", func(args ...any) (any, error) {
		for _, arg := range args {
			if v := stringValue(arg); v != "" {
				return v, nil
			}
		}
		return "", nil
	})
	_ = r.Register("capitalize", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("devinfo: capitalize expects 1 argument, got %d", len(args))
		}
		return CapitalizeFirst(stringValue(args[0]))
	})
	_ = r.Register("storage", func(args ...any) (any, error) {
		bytes, err := uintArg("storage", args)
		if err != nil {
			return nil, err
		}
		return NormalizeStorage(bytes), nil
	})
	_ = r.Register("ram", func(args ...any) (any, error) {
		bytes, err := uintArg("ram", args)
		if err != nil {
			return nil, err
		}
		return NormalizeRAMTier(bytes), nil
	})
	_ = r.Register("maintainer", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("devinfo: maintainer expects 1 argument, got %d", len(args))
		}
		return s.MaintainerLine(stringValue(args[0])), nil
	})
	return r
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("devinfo: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("devinfo: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("devinfo: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// set stores fn under name, replacing any existing entry.
func (r *FunctionRegistry) set(name string, fn Function) {
	if fn == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	r.functions[strings.ToLower(name)] = fn
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// override copies other's functions into r, replacing same-named entries.
func (r *FunctionRegistry) override(other *FunctionRegistry) {
	if r == nil || other == nil {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, fn := range other.functions {
		r.functions[name] = fn
	}
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("devinfo: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("devinfo: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry adds registry's functions to the rule environment.
// Same-named functions from earlier options are replaced.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		if registry == nil {
			return
		}
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		cfg.functions.override(registry)
	}
}

// WithCustomFunction adds fn under name for rule expressions, replacing a
// built-in or earlier function of the same name. Nil functions and empty
// names are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		cfg.functions.set(name, fn)
	}
}

func stringValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func uintArg(name string, args []any) (uint64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("devinfo: %s expects 1 argument, got %d", name, len(args))
	}
	switch v := args[0].(type) {
	case uint64:
		return v, nil
	case int:
		if v >= 0 {
			return uint64(v), nil
		}
	case int64:
		if v >= 0 {
			return uint64(v), nil
		}
	case float64:
		if v >= 0 {
			return uint64(v), nil
		}
	}
	return 0, fmt.Errorf("devinfo: %s expects a non-negative number, got %T", name, args[0])
}

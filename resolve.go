package devinfo

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Lookup is one step of a resolution chain. Steps are evaluated lazily in
// order and the chain stops at the first non-empty value.
type Lookup interface {
	lookup(r *Resolver) (value string, origin string)
}

type keyLookup PropertyKey

func (k keyLookup) lookup(r *Resolver) (string, string) {
	return r.Get(PropertyKey(k)), string(k)
}

type literalLookup string

func (l literalLookup) lookup(*Resolver) (string, string) {
	return string(l), "literal"
}

type sentinelLookup struct{}

func (sentinelLookup) lookup(r *Resolver) (string, string) {
	return r.Unknown(), "sentinel"
}

type funcLookup struct {
	label string
	fn    func() string
}

func (f funcLookup) lookup(*Resolver) (string, string) {
	if f.fn == nil {
		return "", f.label
	}
	return f.fn(), f.label
}

// Key reads key from the property store.
func Key(key PropertyKey) Lookup {
	return keyLookup(key)
}

// Literal always yields value.
func Literal(value string) Lookup {
	return literalLookup(value)
}

// Sentinel yields the resolver's generic "unknown" string.
func Sentinel() Lookup {
	return sentinelLookup{}
}

// Func defers to fn; label names the step in traces.
func Func(label string, fn func() string) Lookup {
	return funcLookup{label: label, fn: fn}
}

// Source is a primary key, an optional secondary key and a final default.
type Source struct {
	Key      PropertyKey
	Fallback PropertyKey
	// Default is returned when both keys are absent. A nil Default means
	// the resolver's unknown sentinel.
	Default *string
}

// Steps expands s into its lookup chain.
func (s Source) Steps() []Lookup {
	steps := make([]Lookup, 0, 3)
	if s.Key != "" {
		steps = append(steps, Key(s.Key))
	}
	if s.Fallback != "" {
		steps = append(steps, Key(s.Fallback))
	}
	if s.Default != nil {
		steps = append(steps, Literal(*s.Default))
	} else {
		steps = append(steps, Sentinel())
	}
	return steps
}

// Resolver reads values from a property store through fallback chains. It
// holds no mutable state and is safe for concurrent use.
type Resolver struct {
	store   PropertyStore
	strings Strings
	logger  hclog.Logger
}

// NewResolver builds a resolver over store. A nil store resolves every key
// as absent.
func NewResolver(store PropertyStore, opts ...Option) *Resolver {
	cfg := applyOptions(opts)
	s := DefaultStrings()
	if cfg.strings != nil {
		s = *cfg.strings
	}
	return &Resolver{
		store:   store,
		strings: s,
		logger:  cfg.log().Named("resolver"),
	}
}

// Strings returns the canned display strings the resolver was built with.
func (r *Resolver) Strings() Strings {
	return r.strings
}

// Unknown returns the generic "unknown" sentinel.
func (r *Resolver) Unknown() string {
	return r.strings.Unknown
}

// Get performs a single read. Missing keys and read failures yield "".
func (r *Resolver) Get(key PropertyKey) string {
	if r == nil || r.store == nil || key == "" {
		return ""
	}
	if fallible, ok := r.store.(FallibleStore); ok {
		value, err := fallible.Lookup(string(key))
		if err != nil {
			r.logger.Trace("property read failed", "key", key, "error", err)
			return ""
		}
		return value
	}
	return r.store.Get(string(key), "")
}

// Resolve returns the value of key, else the value of fallback (when not
// empty), else def.
func (r *Resolver) Resolve(key, fallback PropertyKey, def string) string {
	return r.First(Key(key), Key(fallback), Literal(def))
}

// ResolveSource resolves src through its steps.
func (r *Resolver) ResolveSource(src Source) string {
	return r.First(src.Steps()...)
}

// First evaluates steps in order and returns the first non-empty value.
// It returns "" when every step is empty.
func (r *Resolver) First(steps ...Lookup) string {
	value, _ := r.first(steps, nil)
	return value
}

// ResolveWithTrace behaves like First and records every step consulted.
func (r *Resolver) ResolveWithTrace(steps ...Lookup) (string, Trace) {
	trace := Trace{}
	value, origin := r.first(steps, &trace)
	trace.Value = value
	trace.Origin = origin
	return value, trace
}

func (r *Resolver) first(steps []Lookup, trace *Trace) (string, string) {
	for i, step := range steps {
		if step == nil {
			continue
		}
		if k, ok := step.(keyLookup); ok && k == "" {
			continue
		}
		value, origin := step.lookup(r)
		found := value != ""
		if trace != nil {
			trace.Steps = append(trace.Steps, Provenance{
				Index:  i,
				Origin: origin,
				Value:  value,
				Found:  found,
			})
		}
		if found {
			return value, origin
		}
		if r != nil && r.logger.IsTrace() {
			r.logger.Trace("lookup empty, falling through", "step", i, "origin", origin)
		}
	}
	return "", ""
}

// DeviceName returns device unless it is empty or the unknown sentinel, in
// which case the manufacturer and model are joined.
func (r *Resolver) DeviceName(device, manufacturer, model string) string {
	if device != "" && device != r.Unknown() {
		return device
	}
	return strings.TrimSpace(manufacturer + " " + model)
}

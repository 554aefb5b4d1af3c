package devinfo

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-devinfo/layering"
)

// Scope models a named precedence bucket (defaults, vendor, user, etc.).
// Higher priority values represent stronger layers.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label    string
	metadata map[string]any
}

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// WithScopeMetadata attaches metadata to the scope. The map is copied.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(cfg *scopeConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope. Validation is deferred to NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return Scope{
		Name:     name,
		Label:    cfg.label,
		Priority: priority,
		Metadata: copyMetadata(cfg.metadata),
	}
}

func (s Scope) clone() Scope {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

// Layer pairs a scope with the snapshot captured for it.
type Layer[T any] struct {
	Scope  Scope
	Value  T
	Origin string
}

// NewLayer constructs a Layer holding deep copies of scope and value.
// origin names where the value came from, e.g. a file path.
func NewLayer[T any](scope Scope, value T, origin string) Layer[T] {
	return Layer[T]{
		Scope:  scope.clone(),
		Value:  layering.Clone(value),
		Origin: origin,
	}
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("devinfo: scope name must be provided")
	// ErrDuplicateScopeName indicates two layers share a scope name.
	ErrDuplicateScopeName = errors.New("devinfo: scope names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("devinfo: scope priorities must be distinct")
	// ErrEmptyStack indicates a merge of a stack without layers.
	ErrEmptyStack = errors.New("devinfo: stack must include at least one layer")
)

// Stack is an immutable set of layers ordered strongest first.
type Stack[T any] struct {
	layers []Layer[T]
}

// NewStack validates layers and sorts them strongest first.
func NewStack[T any](layers ...Layer[T]) (*Stack[T], error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer[T], len(layers))
	for i, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seen[layer.Scope.Name] = struct{}{}
		copied[i] = cloneLayer(layer)
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority == copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack[T]{layers: copied}, nil
}

// Layers returns a copy of the layers, strongest first.
func (s *Stack[T]) Layers() []Layer[T] {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer[T], len(s.layers))
	for i := range s.layers {
		out[i] = cloneLayer(s.layers[i])
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge folds the layers into one value and keeps the layers for tracing.
func (s *Stack[T]) Merge() (*Layered[T], error) {
	if s == nil || len(s.layers) == 0 {
		return nil, ErrEmptyStack
	}
	values := make([]T, len(s.layers))
	for i := range s.layers {
		values[i] = s.layers[i].Value
	}
	return &Layered[T]{
		Value:  layering.MergeLayers(values...),
		layers: s.Layers(),
	}, nil
}

func cloneLayer[T any](layer Layer[T]) Layer[T] {
	return Layer[T]{
		Scope:  layer.Scope.clone(),
		Value:  layering.Clone(layer.Value),
		Origin: layer.Origin,
	}
}

// Layered is the merged value of a stack.
type Layered[T any] struct {
	Value  T
	layers []Layer[T]
}

// Layers returns copies of the contributing layers, strongest first.
func (l *Layered[T]) Layers() []Layer[T] {
	if l == nil || len(l.layers) == 0 {
		return nil
	}
	out := make([]Layer[T], len(l.layers))
	for i := range l.layers {
		out[i] = cloneLayer(l.layers[i])
	}
	return out
}

// Scopes lists the contributing scopes, strongest first.
func (l *Layered[T]) Scopes() []Scope {
	if l == nil {
		return nil
	}
	out := make([]Scope, len(l.layers))
	for i, layer := range l.layers {
		out[i] = layer.Scope.clone()
	}
	return out
}

// LayerTrace records which layers define a dotted JSON path.
type LayerTrace struct {
	Path   string            `json:"path"`
	Layers []LayerProvenance `json:"layers"`
}

// LayerProvenance details one layer's contribution to a path.
type LayerProvenance struct {
	Scope  Scope  `json:"scope"`
	Origin string `json:"origin,omitempty"`
	Value  any    `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// ResolveWithTrace returns the merged value at path, using the JSON names
// of T (e.g. "fields.chipset.key"), with every layer's contribution.
func (l *Layered[T]) ResolveWithTrace(path string) (any, LayerTrace, error) {
	trace := LayerTrace{Path: path}
	if l == nil {
		return nil, trace, ErrEmptyStack
	}
	if strings.TrimSpace(path) == "" {
		return nil, trace, fmt.Errorf("devinfo: trace path must not be empty")
	}
	merged, _, err := lookupPath(l.Value, path)
	if err != nil {
		return nil, trace, err
	}
	for _, layer := range l.layers {
		value, found, err := lookupPath(layer.Value, path)
		if err != nil {
			return nil, trace, err
		}
		trace.Layers = append(trace.Layers, LayerProvenance{
			Scope:  layer.Scope.clone(),
			Origin: layer.Origin,
			Value:  value,
			Found:  found,
		})
	}
	return merged, trace, nil
}

func lookupPath(value any, path string) (any, bool, error) {
	current, err := jsonDocument(value)
	if err != nil {
		return nil, false, err
	}
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		current, ok = m[segment]
		if !ok {
			return nil, false, nil
		}
	}
	if current == nil || reflect.ValueOf(current).IsZero() {
		return nil, false, nil
	}
	return current, true, nil
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}

// Package hydrate turns loosely typed documents (decoded YAML or JSON) into
// typed structs, with hooks before and after decoding.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Context identifies the document being decoded.
type Context struct {
	// Source is usually the file path the document was read from.
	Source string
	// Scope names the layer the document will populate.
	Scope string
}

func (c Context) label() string {
	if c.Source == "" {
		return "<inline>"
	}
	return c.Source
}

// PreHook rewrites the document before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook validates or adjusts the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts documents into values of T.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	strict    bool
}

// WithPreHook runs hook before decoding. Hooks run in registration order.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook runs hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects keys that T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// NewDecoder builds a Decoder.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts doc into T. doc is not modified.
func (d *Decoder[T]) Decode(ctx Context, doc map[string]any) (T, error) {
	var zero T
	if doc == nil {
		return zero, fmt.Errorf("hydrate: document %s is empty", ctx.label())
	}

	current, err := cloneDocument(doc)
	if err != nil {
		return zero, fmt.Errorf("hydrate: copy %s: %w", ctx.label(), err)
	}
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %s: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: encode %s: %w", ctx.label(), err)
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	var result T
	if err := dec.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx.label(), err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s: %w", ctx.label(), err)
		}
	}
	return result, nil
}

// NormalizeKeys is a PreHook that lower-cases map keys and turns dashes into
// underscores at every depth, so "Battery-Capacity" decodes as
// "battery_capacity".
func NormalizeKeys(_ Context, doc map[string]any) (map[string]any, error) {
	return normalizeValue(doc).(map[string]any), nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
			out[norm] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

func cloneDocument(doc map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Package activity fans device report events out to pluggable hooks such as
// audit sinks.
package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Event describes something that happened to a device report. IDs are
// strings so call sites need not share a UUID type.
type Event struct {
	Verb string
	// ActorID identifies the device or user the report belongs to.
	ActorID    string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook receives normalized events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans events out to zero or more hooks.
type Hooks []Hook

// Enabled reports whether there is anything to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes event and forwards it to every hook. Events missing a
// verb, object type or object id are dropped. Hook failures are joined.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	normalized := NormalizeEvent(event)
	if !normalized.complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clone drops nil hooks and returns a new slice, or nil when empty.
func (h Hooks) Clone() Hooks {
	out := make(Hooks, 0, len(h))
	for _, hook := range h {
		if hook != nil {
			out = append(out, hook)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (e Event) complete() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// NormalizeEvent trims identifiers, copies metadata and stamps OccurredAt
// when it is unset.
func NormalizeEvent(event Event) Event {
	event.Verb = strings.TrimSpace(event.Verb)
	event.ActorID = strings.TrimSpace(event.ActorID)
	event.TenantID = strings.TrimSpace(event.TenantID)
	event.ObjectType = strings.TrimSpace(event.ObjectType)
	event.ObjectID = strings.TrimSpace(event.ObjectID)
	event.Channel = strings.TrimSpace(event.Channel)
	event.Metadata = CloneMetadata(event.Metadata)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}

// CloneMetadata returns a shallow copy of src, or nil when src is empty.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events that do not name a channel.
const DefaultChannel = "devinfo"

// Config controls emission.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter sends events to hooks, applying the configured channel.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
}

// NewEmitter builds an Emitter. It is disabled unless cfg.Enabled is set and
// at least one non-nil hook is given.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	cloned := hooks.Clone()
	return &Emitter{
		hooks:   cloned,
		enabled: cfg.Enabled && len(cloned) > 0,
		channel: channel,
	}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit forwards event to the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

package devinfo

import "github.com/goliatone/go-devinfo/pkg/activity"

// WithActivityHooks attaches hooks notified when a refreshed report changes.
// Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Clone()
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides activity.DefaultChannel on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.channel = channel
	}
}

func (c config) emitter() *activity.Emitter {
	return activity.NewEmitter(c.activityHooks, activity.Config{
		Enabled: c.activityHooks.Enabled(),
		Channel: c.channel,
	})
}

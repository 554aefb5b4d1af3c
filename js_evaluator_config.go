package devinfo

import "time"

// DefaultJSTimeout bounds a single JS rule run. Rules run on every refresh,
// so a runaway script must not stall the panel.
const DefaultJSTimeout = 250 * time.Millisecond

// JSEvaluatorOption configures the goja-backed evaluator. The options exist
// in every build so profiles and callers compile without the js_eval tag.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSWithProgramCache shares compiled scripts through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry's functions as JS globals.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		if registry != nil {
			s.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts a rule that runs longer than d. Zero or less
// disables the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.timeout = d
	}
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	s := jsSettings{timeout: DefaultJSTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

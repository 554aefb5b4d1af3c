package devinfo

import (
	"time"

	"github.com/goliatone/go-devinfo/pkg/activity"
	"github.com/hashicorp/go-hclog"
)

// DefaultRefreshInterval is the poll period used by live-updating widgets.
const DefaultRefreshInterval = 2 * time.Second

// RuleContext carries inputs needed when evaluating a derived field rule.
type RuleContext struct {
	// Fields holds the values resolved so far, keyed by field name.
	Fields   map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Field names the field being computed. Used for error reporting.
	Field string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Fields == nil {
		ctx.Fields = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) fieldLabel() string {
	if ctx.Field != "" {
		return ctx.Field
	}
	return "unknown"
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Option configures resolvers, reporters and refreshers.
type Option func(*config)

type config struct {
	logger        hclog.Logger
	strings       *Strings
	evaluators    map[string]Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	activityHooks activity.Hooks
	channel       string
	interval      time.Duration
	now           func() time.Time
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c config) log() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return hclog.NewNullLogger()
}

func (c config) evaluatorLogger() EvaluatorLogger {
	if c.evalLogger != nil {
		return c.evalLogger
	}
	return noopEvaluatorLogger{}
}

func (c config) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// WithLogger routes diagnostics to logger. A nil logger disables logging.
func WithLogger(logger hclog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithStrings overrides the canned display strings.
func WithStrings(s Strings) Option {
	return func(cfg *config) {
		merged := s.withDefaults()
		cfg.strings = &merged
	}
}

// WithEvaluator registers e as the engine used for rules declaring engine.
func WithEvaluator(engine string, e Evaluator) Option {
	return func(cfg *config) {
		if cfg.evaluators == nil {
			cfg.evaluators = map[string]Evaluator{}
		}
		cfg.evaluators[normalizeEngine(engine)] = e
	}
}

// WithRefreshInterval overrides DefaultRefreshInterval.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *config) {
		cfg.interval = d
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		cfg.now = now
	}
}

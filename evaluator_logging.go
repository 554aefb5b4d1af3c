package devinfo

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// EvaluatorLogEvent describes a rule evaluation for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Field    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// HCLogEvaluatorLogger writes evaluation events to logger: failures at warn,
// successes at trace.
func HCLogEvaluatorLogger(logger hclog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		args := []any{"engine", event.Engine, "field", event.Field, "expr", event.Expr, "duration", event.Duration}
		if event.Err != nil {
			logger.Warn("rule evaluation failed", append(args, "error", event.Err)...)
			return
		}
		logger.Trace("rule evaluated", args...)
	})
}

// WithEvaluatorLogger attaches an evaluator logger.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}

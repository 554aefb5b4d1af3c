package devinfo

import (
	"fmt"
	"strings"
	"time"
)

// Rule engines understood by profiles.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

func normalizeEngine(engine string) string {
	engine = strings.ToLower(strings.TrimSpace(engine))
	if engine == "" {
		return EngineExpr
	}
	return engine
}

// evaluatorFor returns the evaluator registered for engine, building the
// built-in one on first use.
func (c *config) evaluatorFor(engine string) (Evaluator, error) {
	engine = normalizeEngine(engine)
	if e, ok := c.evaluators[engine]; ok && e != nil {
		return e, nil
	}
	var e Evaluator
	switch engine {
	case EngineExpr:
		e = NewExprEvaluator(ExprWithProgramCache(c.programCache), ExprWithFunctionRegistry(c.functions))
	case EngineCEL:
		e = NewCELEvaluator(CELWithProgramCache(c.programCache), CELWithFunctionRegistry(c.functions))
	case EngineJS:
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: %s requires the js_eval build tag", ErrNoEvaluator, engine)
		}
		e = NewJSEvaluator(JSWithProgramCache(c.programCache), JSWithFunctionRegistry(c.functions))
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrNoEvaluator, engine)
	}
	if c.evaluators == nil {
		c.evaluators = map[string]Evaluator{}
	}
	c.evaluators[engine] = e
	return e, nil
}

// compiledField is a rule bound to its evaluator.
type compiledField struct {
	name   string
	engine string
	expr   string
	rule   CompiledRule
}

func (f compiledField) evaluate(ctx RuleContext, logger EvaluatorLogger) (string, error) {
	ctx.Field = f.name
	start := time.Now()
	value, err := f.rule.Evaluate(ctx)
	err = wrapEvaluationError(f.engine, f.expr, f.name, err)
	logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   f.engine,
		Expr:     f.expr,
		Field:    f.name,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return "", err
	}
	return stringValue(value), nil
}

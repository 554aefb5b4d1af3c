package devinfo

import (
	"fmt"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Every resolved
// field is declared as a dyn variable.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	program, err := e.loadOrCompile(expression, ctx.Fields)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.fieldLabel(), err)
	}
	out, _, err := program.program.Eval(e.activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.fieldLabel(), err)
	}
	return out.Value(), nil
}

// Compile parses expression up front so syntax errors surface at
// construction. Type checking waits until the field set is known.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("expression must not be empty"))
	}
	env, err := e.buildEnv(nil)
	if err != nil {
		return nil, wrapEvaluatorError(EngineCEL, err)
	}
	if _, issues := env.Parse(expression); issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, "", issues.Err())
	}
	return &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}, nil
}

// loadOrCompile caches programs per expression and declared field set, since
// CEL binds variable declarations at check time.
func (e *celEvaluator) loadOrCompile(expression string, fields map[string]any) (*celProgram, error) {
	names := make([]string, 0, len(fields))
	for key := range fields {
		names = append(names, key)
	}
	sort.Strings(names)
	key := EngineCEL + ":" + strings.Join(names, ",") + ":" + expression

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(names)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(key, bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv(fields []string) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType, celgo.DynType},
			celgo.DynType,
			celgo.FunctionBinding(functions.FunctionOp(e.callBinding())),
		)))
	}
	for _, key := range fields {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(ctx RuleContext) map[string]any {
	activation := map[string]any{
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
	for key, value := range ctx.Fields {
		activation[key] = value
	}
	return activation
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("compiled rule missing evaluator"))
	}
	return r.evaluator.Evaluate(ctx, r.expression)
}

// callBinding exposes the registry as call(name, arg).
func (e *celEvaluator) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("devinfo: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("devinfo: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("devinfo: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

package devinfo

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func ruleContext(fields map[string]any) RuleContext {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return RuleContext{Fields: fields, Now: &now, Field: "under_test"}
}

func TestExprEvaluatorResolvesFields(t *testing.T) {
	e := NewExprEvaluator(ExprWithFunctionRegistry(DefaultFunctions(DefaultStrings())))
	fields := map[string]any{"device": "", "manufacturer": "Google", "model": "Pixel 8"}

	got, err := e.Evaluate(ruleContext(fields), `device != "" ? device : trim(manufacturer + " " + model)`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "Google Pixel 8" {
		t.Fatalf("expected Google Pixel 8, got %v", got)
	}
}

func TestExprEvaluatorCallsRegistry(t *testing.T) {
	e := NewExprEvaluator(ExprWithFunctionRegistry(DefaultFunctions(DefaultStrings())))
	cases := map[string]string{
		`capitalize(release)`:            "Official",
		`coalesce(missing, "", release)`: "official",
		`maintainer("unknown")`:          "No maintainer",
		`storage(17 * 1073741824)`:       "32",
		`ram(3 * 1073741824 + 1)`:        "4 GB",
	}
	for expression, want := range cases {
		rule, err := e.Compile(expression)
		if err != nil {
			t.Fatalf("compile %s: %v", expression, err)
		}
		got, err := rule.Evaluate(ruleContext(map[string]any{"release": "official", "missing": ""}))
		if err != nil {
			t.Fatalf("evaluate %s: %v", expression, err)
		}
		if stringValue(got) != want {
			t.Fatalf("%s: want %q, got %v", expression, want, got)
		}
	}
}

func TestExprEvaluatorUsesProgramCache(t *testing.T) {
	cache := NewMemoryProgramCache()
	e := NewExprEvaluator(ExprWithProgramCache(cache))
	for i := 0; i < 3; i++ {
		if _, err := e.Evaluate(ruleContext(map[string]any{"a": "x"}), `a + "y"`); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestExprEvaluatorErrors(t *testing.T) {
	e := NewExprEvaluator()
	if _, err := e.Evaluate(RuleContext{}, ""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
	_, err := e.Compile(`a +`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != EngineExpr {
		t.Fatalf("expected EvaluationError from expr, got %v", err)
	}
}

func TestCELEvaluatorResolvesFields(t *testing.T) {
	e := NewCELEvaluator(CELWithFunctionRegistry(DefaultFunctions(DefaultStrings())))
	fields := map[string]any{"version": "4.1", "version_code": "Valentine", "package_type": "GAPPS"}

	got, err := e.Evaluate(ruleContext(fields), `version + " | " + version_code + " | " + package_type`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "4.1 | Valentine | GAPPS" {
		t.Fatalf("unexpected value %v", got)
	}

	got, err = e.Evaluate(ruleContext(map[string]any{"release": "official"}), `call("capitalize", release)`)
	if err != nil {
		t.Fatalf("evaluate call: %v", err)
	}
	if got != "Official" {
		t.Fatalf("expected Official, got %v", got)
	}
}

func TestCELEvaluatorCachesPerFieldSet(t *testing.T) {
	cache := NewMemoryProgramCache()
	e := NewCELEvaluator(CELWithProgramCache(cache))
	rule, err := e.Compile(`a == "x"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, fields := range []map[string]any{{"a": "x"}, {"a": "y"}, {"a": "x", "b": "z"}} {
		if _, err := rule.Evaluate(ruleContext(fields)); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("expected one program per field set, got %d", cache.Len())
	}
}

func TestCELEvaluatorReportsUndeclaredField(t *testing.T) {
	e := NewCELEvaluator()
	_, err := e.Evaluate(ruleContext(map[string]any{"a": "x"}), `missing == "x"`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != EngineCEL || evalErr.Field != "under_test" {
		t.Fatalf("expected CEL EvaluationError naming the field, got %v", err)
	}
}

func TestEvaluatorForEngines(t *testing.T) {
	cfg := config{}
	for _, engine := range []string{"", "EXPR", EngineCEL} {
		e, err := cfg.evaluatorFor(engine)
		if err != nil || e == nil {
			t.Fatalf("engine %q: %v", engine, err)
		}
	}
	if _, err := cfg.evaluatorFor("lua"); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator for unknown engine, got %v", err)
	}
	if !jsEvaluatorAvailable() {
		_, err := cfg.evaluatorFor(EngineJS)
		if !errors.Is(err, ErrNoEvaluator) || !strings.Contains(err.Error(), "js_eval") {
			t.Fatalf("expected js engine to require build tag, got %v", err)
		}
	}
}

func TestCELCompileRejectsSyntaxErrors(t *testing.T) {
	e := NewCELEvaluator()
	_, err := e.Compile(`device_name + (`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != EngineCEL {
		t.Fatalf("expected EvaluationError from cel, got %v", err)
	}
	if _, err := e.Compile(`device_name + " (" + chipset + ")"`); err != nil {
		t.Fatalf("undeclared fields must not fail compile: %v", err)
	}
}

func TestCompiledFieldLogsEvaluation(t *testing.T) {
	var events []EvaluatorLogEvent
	logger := EvaluatorLoggerFunc(func(e EvaluatorLogEvent) { events = append(events, e) })
	rule, err := NewExprEvaluator().Compile(`a + b`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	field := compiledField{name: "joined", engine: EngineExpr, expr: `a + b`, rule: rule}

	got, err := field.evaluate(ruleContext(map[string]any{"a": "x", "b": "y"}), logger)
	if err != nil || got != "xy" {
		t.Fatalf("expected xy, got %q (%v)", got, err)
	}
	if len(events) != 1 || events[0].Field != "joined" || events[0].Err != nil {
		t.Fatalf("unexpected log events %+v", events)
	}
}

//go:build js_eval

package devinfo

import (
	"strings"
	"testing"
	"time"
)

func TestJSEvaluatorResolvesFields(t *testing.T) {
	e := NewJSEvaluator(JSWithFunctionRegistry(DefaultFunctions(DefaultStrings())))
	rule, err := e.Compile(`call("capitalize", release_type) + " / " + chipset.toUpperCase()`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out, err := rule.Evaluate(RuleContext{Fields: map[string]any{"release_type": "official", "chipset": "sm8550"}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out != "Official / SM8550" {
		t.Fatalf("unexpected result %v", out)
	}
}

func TestJSEvaluatorTimeout(t *testing.T) {
	e := NewJSEvaluator(JSWithTimeout(10 * time.Millisecond))
	_, err := e.Evaluate(RuleContext{Field: "spin"}, `(function(){ for(;;){} })()`)
	if err == nil || !strings.Contains(err.Error(), "rule exceeded") {
		t.Fatalf("expected interrupt, got %v", err)
	}
}

func TestReporterWithJSField(t *testing.T) {
	profile := DefaultProfile()
	profile.Fields["codename"] = FieldSpec{Engine: EngineJS, Expr: `version_code.toLowerCase()`}
	r := newTestReporter(t, risingProps, profile)
	fields, err := r.ResolveFields(t.Context())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fields["codename"] != "qiqi" {
		t.Fatalf("unexpected codename %q", fields["codename"])
	}
}

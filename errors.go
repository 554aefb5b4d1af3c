package devinfo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput reports an empty string passed where text is required.
	ErrEmptyInput = errors.New("devinfo: input must not be empty")
	// ErrNoEvaluator reports a rule whose engine is not available.
	ErrNoEvaluator = errors.New("devinfo: evaluator not configured")
	// ErrInvalidField reports a profile field that cannot be resolved.
	ErrInvalidField = errors.New("devinfo: invalid field")
)

// PreconditionError signals a caller contract violation. It is never
// recovered from internally.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("devinfo: %s: precondition violated: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Field  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("devinfo: %s evaluator %s field=%s: %v", e.Engine, describeExpression(e.Expr), e.Field, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "devinfo:") {
		return err
	}
	return fmt.Errorf("devinfo: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, field string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Field == "" {
			evalErr.Field = field
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Field:  field,
		Err:    err,
	}
}

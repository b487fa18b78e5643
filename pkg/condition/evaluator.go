package condition

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var errNilPredicate = errors.New("condition: predicate has no function")

// Diagnostic describes a contained evaluation fault: a failing or panicking
// predicate, or a malformed tree handed to the lenient Evaluate entry point.
type Diagnostic struct {
	Predicate string
	Err       error
}

// DiagnosticHandler receives diagnostics synchronously from the evaluating
// goroutine.
type DiagnosticHandler func(Diagnostic)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger routes diagnostics to logger instead of the global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithDiagnosticHandler registers a callback for contained faults.
func WithDiagnosticHandler(handler DiagnosticHandler) Option {
	return func(e *Evaluator) {
		e.onDiagnostic = handler
	}
}

// Evaluator evaluates expressions against value snapshots. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	logger       *zap.Logger
	onDiagnostic DiagnosticHandler
}

// New returns an Evaluator configured with opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var defaultEvaluator = New()

// Evaluate evaluates expr with the default evaluator.
func Evaluate(expr Expression, values Values) bool {
	return defaultEvaluator.Evaluate(expr, values)
}

// Evaluate returns whether expr holds for values. A nil expression holds.
// Faults never propagate: a malformed tree is reported as a Diagnostic and
// evaluates to true so the guarded content stays visible.
func (e *Evaluator) Evaluate(expr Expression, values Values) bool {
	ok, err := e.Eval(expr, values)
	if err != nil {
		e.report(Diagnostic{Err: err})
		return true
	}
	return ok
}

// Eval is the strict variant of Evaluate: malformed trees (unknown operator,
// nil node, wrong operand shape) are returned as *MalformedError. Predicate
// failures are still contained and evaluate to true.
func (e *Evaluator) Eval(expr Expression, values Values) (bool, error) {
	if expr == nil {
		return true, nil
	}
	return e.eval(expr, values, "")
}

func (e *Evaluator) eval(expr Expression, values Values, path string) (bool, error) {
	switch typed := normalize(expr).(type) {
	case nil:
		return false, &MalformedError{Path: path, Reason: "nil node"}
	case Leaf:
		if err := checkLeaf(typed, path); err != nil {
			return false, err
		}
		value, _ := lookup(values, typed.Field)
		return compare(typed.Operator, value, typed.Value), nil
	case And:
		base := joinNodePath(path, "and")
		for idx, node := range typed.Nodes {
			ok, err := e.eval(node, values, fmt.Sprintf("%s[%d]", base, idx))
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Or:
		base := joinNodePath(path, "or")
		for idx, node := range typed.Nodes {
			ok, err := e.eval(node, values, fmt.Sprintf("%s[%d]", base, idx))
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Predicate:
		return e.runPredicate(typed, values), nil
	default:
		return false, &MalformedError{Path: path, Reason: fmt.Sprintf("unsupported node %T", expr)}
	}
}

func (e *Evaluator) runPredicate(p Predicate, values Values) (result bool) {
	if p.Fn == nil {
		e.report(Diagnostic{Predicate: p.Name, Err: errNilPredicate})
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			e.report(Diagnostic{Predicate: p.Name, Err: fmt.Errorf("condition: predicate panicked: %v", r)})
			result = true
		}
	}()

	snapshot := make(Values, len(values))
	for key, value := range values {
		snapshot[key] = value
	}
	ok, err := p.Fn(snapshot)
	if err != nil {
		e.report(Diagnostic{Predicate: p.Name, Err: err})
		return true
	}
	return ok
}

func (e *Evaluator) report(d Diagnostic) {
	if e.onDiagnostic != nil {
		e.onDiagnostic(d)
	}
	logger := e.logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Warn("condition: evaluation fault, treating as visible",
		zap.String("predicate", d.Predicate),
		zap.Error(d.Err),
	)
}

func compare(op Operator, got, want any) bool {
	switch op {
	case OpEquals:
		return equal(got, want)
	case OpNotEquals:
		return !equal(got, want)
	case OpIn:
		return member(got, want)
	case OpNotIn:
		return !member(got, want)
	case OpGreaterThan:
		c, ok := order(got, want)
		return ok && c > 0
	case OpGreaterOrEqual:
		c, ok := order(got, want)
		return ok && c >= 0
	case OpLessThan:
		c, ok := order(got, want)
		return ok && c < 0
	case OpLessOrEqual:
		c, ok := order(got, want)
		return ok && c <= 0
	case OpTruthy:
		return truthy(got)
	case OpFalsy:
		return !truthy(got)
	default:
		return false
	}
}

func lookup(values Values, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if len(values) == 0 || key == "" {
		return nil, false
	}

	// Prefer exact match for dotted keys.
	if v, ok := values[key]; ok {
		return v, true
	}

	// Otherwise descend from the longest key prefix present, so a path keyed
	// snapshot and a nested one resolve alike.
	for idx := strings.LastIndex(key, "."); idx > 0; idx = strings.LastIndex(key[:idx], ".") {
		head, ok := values[key[:idx]]
		if !ok {
			continue
		}
		if v, ok := descend(head, key[idx+1:]); ok {
			return v, true
		}
	}
	return nil, false
}

func descend(current any, path string) (any, bool) {
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case Values:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

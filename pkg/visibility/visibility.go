package visibility

import (
	"github.com/goliatone/go-formschema/pkg/condition"
)

// Evaluator decides whether the member at path is visible given its showWhen
// expression and the current value snapshot.
type Evaluator interface {
	Eval(path string, expr condition.Expression, values condition.Values) bool
}

// Context provides inputs to an Evaluator. Values is the form value snapshot
// while Extras allows callers to inject context such as user roles or feature
// flags, addressable from conditions with the "extras." prefix.
type Context struct {
	Values condition.Values
	Extras map[string]any
}

// Snapshot merges Extras into a copy of Values under the "extras" key.
func (c Context) Snapshot() condition.Values {
	if len(c.Extras) == 0 {
		return c.Values
	}
	out := make(condition.Values, len(c.Values)+1)
	for key, value := range c.Values {
		out[key] = value
	}
	out["extras"] = c.Extras
	return out
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(path string, expr condition.Expression, values condition.Values) bool

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(path string, expr condition.Expression, values condition.Values) bool {
	return fn(path, expr, values)
}

// FromCondition adapts a condition evaluator. A nil evaluator uses the
// package defaults of condition.New.
func FromCondition(evaluator *condition.Evaluator) Evaluator {
	if evaluator == nil {
		evaluator = condition.New()
	}
	return EvaluatorFunc(func(_ string, expr condition.Expression, values condition.Values) bool {
		return evaluator.Evaluate(expr, values)
	})
}

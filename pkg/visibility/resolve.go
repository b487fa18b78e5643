package visibility

import (
	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Option configures Resolve.
type Option func(*resolver)

// WithEvaluator overrides the evaluator used for showWhen expressions.
func WithEvaluator(evaluator Evaluator) Option {
	return func(r *resolver) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithExtras exposes extra context to conditions under the "extras." prefix.
func WithExtras(extras map[string]any) Option {
	return func(r *resolver) {
		r.extras = extras
	}
}

type resolver struct {
	evaluator Evaluator
	extras    map[string]any
}

// Result is the visibility of every member of a schema for one snapshot.
type Result struct {
	visible map[string]bool
	order   []string
	fields  []string
}

// Visible reports whether the member at path is visible. Unknown paths are
// not visible.
func (r Result) Visible(path string) bool {
	return r.visible[path]
}

// VisibleFields returns the paths of visible fields in rendering order.
func (r Result) VisibleFields() []string {
	out := make([]string, 0, len(r.fields))
	for _, path := range r.fields {
		if r.visible[path] {
			out = append(out, path)
		}
	}
	return out
}

// Hidden returns the paths of hidden fields and groups in rendering order.
func (r Result) Hidden() []string {
	var out []string
	for _, path := range r.order {
		if !r.visible[path] {
			out = append(out, path)
		}
	}
	return out
}

// Resolve evaluates every showWhen of schema against values. Members without
// a condition are visible. Members of a hidden group are hidden without their
// own conditions being evaluated.
func Resolve(schema *model.Schema, values condition.Values, opts ...Option) Result {
	r := resolver{evaluator: FromCondition(nil)}
	for _, opt := range opts {
		opt(&r)
	}
	snapshot := Context{Values: values, Extras: r.extras}.Snapshot()

	result := Result{visible: make(map[string]bool)}
	if schema == nil {
		return result
	}
	_ = schema.Walk(func(path string, member model.Member) error {
		result.order = append(result.order, path)

		var expr condition.Expression
		if field := member.Field(); field != nil {
			result.fields = append(result.fields, path)
			expr = field.Spec().ShowWhen
		} else if group := member.Group(); group != nil {
			expr = group.ShowWhen()
		}

		visible := expr == nil || r.evaluator.Eval(path, expr, snapshot)
		result.visible[path] = visible
		if !visible && member.Group() != nil {
			hideDescendants(&result, path, member.Group())
			return model.SkipGroup
		}
		return nil
	})
	return result
}

func hideDescendants(result *Result, prefix string, group *model.Group) {
	for _, member := range group.Members() {
		path := prefix + "." + member.Name
		result.order = append(result.order, path)
		result.visible[path] = false
		if member.Field() != nil {
			result.fields = append(result.fields, path)
		}
		if nested := member.Group(); nested != nil {
			hideDescendants(result, path, nested)
		}
	}
}

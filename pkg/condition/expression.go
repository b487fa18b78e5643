package condition

// Values is a snapshot of the current form values keyed by field path. A
// dotted key without an exact entry is resolved by descending into nested maps
// from its longest present prefix.
type Values map[string]any

// Operator names the comparison a Leaf applies between the snapshot value and
// its literal.
type Operator string

const (
	OpEquals         Operator = "eq"
	OpNotEquals      Operator = "neq"
	OpIn             Operator = "in"
	OpNotIn          Operator = "notIn"
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpTruthy         Operator = "truthy"
	OpFalsy          Operator = "falsy"
)

// Known reports whether the operator is understood by the evaluator.
func (op Operator) Known() bool {
	switch op {
	case OpEquals, OpNotEquals, OpIn, OpNotIn,
		OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
		OpTruthy, OpFalsy:
		return true
	default:
		return false
	}
}

// unary operators ignore Leaf.Value.
func (op Operator) unary() bool {
	return op == OpTruthy || op == OpFalsy
}

// Expression is a visibility condition. The set of implementations is closed:
// Leaf, And, Or and Predicate.
type Expression interface {
	expression()
}

// Leaf compares the named field's current value against Value.
type Leaf struct {
	Field    string
	Operator Operator
	Value    any
}

// And is true when every node is true. An empty And is true.
type And struct {
	Nodes []Expression
}

// Or is true when at least one node is true. An empty Or is false.
type Or struct {
	Nodes []Expression
}

// PredicateFunc is caller supplied visibility logic.
type PredicateFunc func(values Values) (bool, error)

// Predicate wraps arbitrary caller logic. Failures (returned errors or panics)
// never propagate: the predicate evaluates to true and a Diagnostic is
// emitted.
type Predicate struct {
	Name string
	Fn   PredicateFunc
}

func (Leaf) expression()      {}
func (And) expression()       {}
func (Or) expression()        {}
func (Predicate) expression() {}

// Equals is shorthand for Leaf{field, OpEquals, value}.
func Equals(field string, value any) Leaf {
	return Leaf{Field: field, Operator: OpEquals, Value: value}
}

// NotEquals is shorthand for Leaf{field, OpNotEquals, value}.
func NotEquals(field string, value any) Leaf {
	return Leaf{Field: field, Operator: OpNotEquals, Value: value}
}

// In matches when the field value is one of values.
func In(field string, values ...any) Leaf {
	return Leaf{Field: field, Operator: OpIn, Value: values}
}

// NotIn matches when the field value is none of values.
func NotIn(field string, values ...any) Leaf {
	return Leaf{Field: field, Operator: OpNotIn, Value: values}
}

// Truthy matches non-empty, non-zero, non-false values.
func Truthy(field string) Leaf {
	return Leaf{Field: field, Operator: OpTruthy}
}

// AllOf builds an And node.
func AllOf(nodes ...Expression) And {
	return And{Nodes: nodes}
}

// AnyOf builds an Or node.
func AnyOf(nodes ...Expression) Or {
	return Or{Nodes: nodes}
}

// Func builds a Predicate node.
func Func(name string, fn PredicateFunc) Predicate {
	return Predicate{Name: name, Fn: fn}
}

// Fields returns the field references of the leaves in expr, in first-seen
// order without duplicates. Predicates reference nothing statically.
func Fields(expr Expression) []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(Expression)
	walk = func(node Expression) {
		switch typed := normalize(node).(type) {
		case Leaf:
			if _, ok := seen[typed.Field]; ok {
				return
			}
			seen[typed.Field] = struct{}{}
			out = append(out, typed.Field)
		case And:
			for _, child := range typed.Nodes {
				walk(child)
			}
		case Or:
			for _, child := range typed.Nodes {
				walk(child)
			}
		}
	}
	walk(expr)
	return out
}

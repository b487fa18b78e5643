package condition

import (
	"fmt"
	"reflect"
	"strings"
)

// MalformedError reports a structurally invalid expression. Path locates the
// offending node, e.g. "or[1].and[0]".
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Path == "" {
		return "condition: malformed expression: " + e.Reason
	}
	return fmt.Sprintf("condition: malformed expression at %s: %s", e.Path, e.Reason)
}

// Check validates the structure of expr: every node is a known variant, leaves
// name a field and use a known operator with the right operand shape, and
// predicates carry a function. A nil expression is valid (always visible).
func Check(expr Expression) error {
	if expr == nil {
		return nil
	}
	return check(expr, "")
}

func check(expr Expression, path string) error {
	switch typed := normalize(expr).(type) {
	case nil:
		return &MalformedError{Path: path, Reason: "nil node"}
	case Leaf:
		return checkLeaf(typed, path)
	case And:
		return checkNodes(typed.Nodes, joinNodePath(path, "and"))
	case Or:
		return checkNodes(typed.Nodes, joinNodePath(path, "or"))
	case Predicate:
		if typed.Fn == nil {
			return &MalformedError{Path: path, Reason: fmt.Sprintf("predicate %q has no function", typed.Name)}
		}
		return nil
	default:
		return &MalformedError{Path: path, Reason: fmt.Sprintf("unsupported node %T", expr)}
	}
}

func checkNodes(nodes []Expression, path string) error {
	for idx, node := range nodes {
		if err := check(node, fmt.Sprintf("%s[%d]", path, idx)); err != nil {
			return err
		}
	}
	return nil
}

func checkLeaf(leaf Leaf, path string) error {
	if strings.TrimSpace(leaf.Field) == "" {
		return &MalformedError{Path: path, Reason: "leaf field is empty"}
	}
	if !leaf.Operator.Known() {
		return &MalformedError{Path: path, Reason: fmt.Sprintf("unknown operator %q", leaf.Operator)}
	}
	switch leaf.Operator {
	case OpIn, OpNotIn:
		if !isList(leaf.Value) {
			return &MalformedError{Path: path, Reason: fmt.Sprintf("operator %q requires a list operand", leaf.Operator)}
		}
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual:
		if leaf.Value == nil || isList(leaf.Value) {
			return &MalformedError{Path: path, Reason: fmt.Sprintf("operator %q requires a scalar operand", leaf.Operator)}
		}
	}
	return nil
}

func joinNodePath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}

func isList(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// normalize dereferences pointer variants so callers may hand in &Leaf{} and
// friends.
func normalize(expr Expression) Expression {
	switch typed := expr.(type) {
	case *Leaf:
		if typed == nil {
			return nil
		}
		return *typed
	case *And:
		if typed == nil {
			return nil
		}
		return *typed
	case *Or:
		if typed == nil {
			return nil
		}
		return *typed
	case *Predicate:
		if typed == nil {
			return nil
		}
		return *typed
	default:
		return expr
	}
}

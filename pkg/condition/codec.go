package condition

import (
	"fmt"
	"sort"
	"strings"
)

// PredicateLookup resolves named predicates referenced by documents.
type PredicateLookup func(name string) (PredicateFunc, bool)

var operatorAliases = map[string]Operator{
	"==":     OpEquals,
	"=":      OpEquals,
	"equals": OpEquals,
	"!=":     OpNotEquals,
	">":      OpGreaterThan,
	">=":     OpGreaterOrEqual,
	"<":      OpLessThan,
	"<=":     OpLessOrEqual,
	"notin":  OpNotIn,
	"not_in": OpNotIn,
}

// Decode converts a generic document value (as produced by JSON or YAML
// decoding) into an expression. Accepted shapes:
//
//	"role == 'admin'"                          rule string, see Parse
//	{field: role, operator: eq, value: admin}  leaf; operator defaults to eq
//	{and: [...]} / {or: [...]}                 composition
//	{not: ...}                                 negation
//	{predicate: name}                          named predicate via lookup
//	[...]                                      implicit and
func Decode(raw any, lookup PredicateLookup) (Expression, error) {
	return decode(raw, lookup, "")
}

func decode(raw any, lookup PredicateLookup, path string) (Expression, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case string:
		expr, err := Parse(typed)
		if err != nil {
			return nil, wrapPath(err, path)
		}
		return expr, nil
	case []any:
		nodes, err := decodeList(typed, lookup, joinNodePath(path, "and"))
		if err != nil {
			return nil, err
		}
		return And{Nodes: nodes}, nil
	case map[string]any:
		return decodeMap(typed, lookup, path)
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, value := range typed {
			converted[fmt.Sprint(key)] = value
		}
		return decodeMap(converted, lookup, path)
	default:
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("unsupported condition value %T", raw)}
	}
}

func decodeMap(raw map[string]any, lookup PredicateLookup, path string) (Expression, error) {
	if list, ok := raw["and"]; ok {
		items, ok := list.([]any)
		if !ok {
			return nil, &MalformedError{Path: path, Reason: "and requires a list"}
		}
		nodes, err := decodeList(items, lookup, joinNodePath(path, "and"))
		if err != nil {
			return nil, err
		}
		return And{Nodes: nodes}, nil
	}
	if list, ok := raw["or"]; ok {
		items, ok := list.([]any)
		if !ok {
			return nil, &MalformedError{Path: path, Reason: "or requires a list"}
		}
		nodes, err := decodeList(items, lookup, joinNodePath(path, "or"))
		if err != nil {
			return nil, err
		}
		return Or{Nodes: nodes}, nil
	}
	if inner, ok := raw["not"]; ok {
		expr, err := decode(inner, lookup, joinNodePath(path, "not"))
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, &MalformedError{Path: path, Reason: "not requires an expression"}
		}
		return Negate(expr)
	}
	if name, ok := raw["predicate"]; ok {
		key := strings.TrimSpace(fmt.Sprint(name))
		if lookup == nil {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("predicate %q cannot be resolved: no predicates registered", key)}
		}
		fn, found := lookup(key)
		if !found {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("unknown predicate %q", key)}
		}
		return Predicate{Name: key, Fn: fn}, nil
	}
	if field, ok := raw["field"]; ok {
		leaf := Leaf{
			Field:    strings.TrimSpace(fmt.Sprint(field)),
			Operator: OpEquals,
			Value:    raw["value"],
		}
		opRaw, hasOp := raw["operator"]
		if !hasOp {
			opRaw, hasOp = raw["op"]
		}
		if hasOp {
			leaf.Operator = parseOperator(fmt.Sprint(opRaw))
		}
		if err := checkLeaf(leaf, path); err != nil {
			return nil, err
		}
		return leaf, nil
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("unrecognised condition keys %v", keys)}
}

func decodeList(items []any, lookup PredicateLookup, path string) ([]Expression, error) {
	nodes := make([]Expression, 0, len(items))
	for idx, item := range items {
		expr, err := decode(item, lookup, fmt.Sprintf("%s[%d]", path, idx))
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, &MalformedError{Path: fmt.Sprintf("%s[%d]", path, idx), Reason: "empty node"}
		}
		nodes = append(nodes, expr)
	}
	return nodes, nil
}

func parseOperator(raw string) Operator {
	trimmed := strings.TrimSpace(raw)
	if op := Operator(trimmed); op.Known() {
		return op
	}
	if op, ok := operatorAliases[strings.ToLower(trimmed)]; ok {
		return op
	}
	for candidate := range negatedOperators {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate
		}
	}
	return Operator(trimmed)
}

func wrapPath(err error, path string) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("condition: at %s: %w", path, err)
}

// Encode converts expr into the generic document shape accepted by Decode.
// Predicates encode by name only.
func Encode(expr Expression) any {
	switch typed := normalize(expr).(type) {
	case Leaf:
		out := map[string]any{
			"field":    typed.Field,
			"operator": string(typed.Operator),
		}
		if !typed.Operator.unary() {
			out["value"] = typed.Value
		}
		return out
	case And:
		return map[string]any{"and": encodeAll(typed.Nodes)}
	case Or:
		return map[string]any{"or": encodeAll(typed.Nodes)}
	case Predicate:
		return map[string]any{"predicate": typed.Name}
	default:
		return nil
	}
}

func encodeAll(nodes []Expression) []any {
	out := make([]any, len(nodes))
	for idx, node := range nodes {
		out[idx] = Encode(node)
	}
	return out
}

package condition

// Clone returns a deep copy of expr. Pointer variants are returned as values,
// list literals are copied and predicate functions are shared.
func Clone(expr Expression) Expression {
	switch typed := normalize(expr).(type) {
	case Leaf:
		typed.Value = CloneValue(typed.Value)
		return typed
	case And:
		return And{Nodes: cloneAll(typed.Nodes)}
	case Or:
		return Or{Nodes: cloneAll(typed.Nodes)}
	case Predicate:
		return typed
	default:
		return nil
	}
}

// RenameFields returns a copy of expr with every leaf field replaced by
// rename(field).
func RenameFields(expr Expression, rename func(string) string) Expression {
	switch typed := normalize(expr).(type) {
	case Leaf:
		typed.Field = rename(typed.Field)
		typed.Value = CloneValue(typed.Value)
		return typed
	case And:
		return And{Nodes: renameAll(typed.Nodes, rename)}
	case Or:
		return Or{Nodes: renameAll(typed.Nodes, rename)}
	case Predicate:
		return typed
	default:
		return nil
	}
}

func renameAll(nodes []Expression, rename func(string) string) []Expression {
	if nodes == nil {
		return nil
	}
	out := make([]Expression, len(nodes))
	for idx, node := range nodes {
		out[idx] = RenameFields(node, rename)
	}
	return out
}

func cloneAll(nodes []Expression) []Expression {
	if nodes == nil {
		return nil
	}
	out := make([]Expression, len(nodes))
	for idx, node := range nodes {
		out[idx] = Clone(node)
	}
	return out
}

// CloneValue deep copies the generic containers found in documents and
// snapshots ([]any, []string, map[string]any). Other values are returned as is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = CloneValue(item)
		}
		return out
	default:
		return value
	}
}

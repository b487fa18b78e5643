package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// equal compares a snapshot value against a literal, coercing the snapshot
// value to the literal's type. Absent values only equal a nil literal.
func equal(got, want any) bool {
	if want == nil {
		return isNil(got)
	}
	if isNil(got) {
		return false
	}

	switch w := want.(type) {
	case bool:
		g, ok := coerceBool(got)
		return ok && g == w
	case string:
		if t, ok := got.(time.Time); ok {
			parsed, ok := coerceTime(w)
			return ok && t.Equal(parsed)
		}
		return coerceString(got) == w
	case time.Time:
		g, ok := coerceTime(got)
		return ok && g.Equal(w)
	}

	if wf, ok := coerceNumber(want); ok {
		g, ok := coerceNumber(got)
		return ok && g == wf
	}
	return reflect.DeepEqual(got, want)
}

// member reports whether got is one of the entries of list. Multi-value
// snapshot values match when any of their entries is listed.
func member(got, list any) bool {
	entries := listValues(list)
	if len(entries) == 0 || isNil(got) {
		return false
	}
	candidates := []any{got}
	if isList(got) {
		candidates = listValues(got)
	}
	for _, candidate := range candidates {
		for _, entry := range entries {
			if equal(candidate, entry) {
				return true
			}
		}
	}
	return false
}

// order compares got against want and reports -1, 0 or 1. The second result
// is false when the two cannot be ordered.
func order(got, want any) (int, bool) {
	if isNil(got) || isNil(want) {
		return 0, false
	}

	if wf, ok := coerceNumber(want); ok {
		if _, isString := want.(string); !isString {
			g, ok := coerceNumber(got)
			if !ok {
				return 0, false
			}
			return compareFloat(g, wf), true
		}
	}

	_, gotTime := got.(time.Time)
	_, wantTime := want.(time.Time)
	if gotTime || wantTime {
		g, okG := coerceTime(got)
		w, okW := coerceTime(want)
		if !okG || !okW {
			return 0, false
		}
		return g.Compare(w), true
	}

	if ws, ok := want.(string); ok {
		if gs, ok := got.(string); ok {
			if gf, err := strconv.ParseFloat(strings.TrimSpace(gs), 64); err == nil {
				if wf, err := strconv.ParseFloat(strings.TrimSpace(ws), 64); err == nil {
					return compareFloat(gf, wf), true
				}
			}
			return strings.Compare(gs, ws), true
		}
		if g, ok := coerceNumber(got); ok {
			wf, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
			if err != nil {
				return 0, false
			}
			return compareFloat(g, wf), true
		}
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func truthy(value any) bool {
	if isNil(value) {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case time.Time:
		return !v.IsZero()
	}
	if f, ok := coerceNumber(value); ok {
		return f != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if isNil(value) {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

// coerceNumber converts numeric kinds and numeric strings to float64.
func coerceNumber(value any) (float64, bool) {
	if isNil(value) {
		return 0, false
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	if isNil(value) {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func coerceTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func listValues(value any) []any {
	if typed, ok := value.([]any); ok {
		return typed
	}
	if !isList(value) {
		return nil
	}
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	hintKind    = "layout"
	hintColumns = "layout.columns"
)

// tierBreakpoints maps tiers to the breakpoint keys renderers use.
var tierBreakpoints = []struct {
	tier Tier
	key  string
}{
	{TierCompact, "sm"},
	{TierMedium, "md"},
	{TierWide, "lg"},
}

// Hints flattens the descriptor into string hints for renderers, e.g.
// {"layout": "responsive", "layout.columns.sm": "1", "layout.columns.md": "2"}.
func (d Descriptor) Hints() map[string]string {
	d = d.Normalize()
	out := map[string]string{hintKind: string(d.Kind)}
	switch d.Kind {
	case KindStacked, KindPaired:
		out[hintColumns] = strconv.Itoa(d.ColumnsFor(TierWide))
	case KindResponsive:
		for _, bp := range tierBreakpoints {
			if n := d.ColumnsFor(bp.tier); n > 0 {
				out[hintColumns+"."+bp.key] = strconv.Itoa(n)
			}
		}
	}
	return out
}

// Parse reads a descriptor from a document value. Accepted shapes are a kind
// name ("paired") or a map {kind: responsive, columns: {compact: 1, medium: 2,
// wide: 3}}. Breakpoint aliases sm/md/lg are accepted for tiers. The result
// is not validated.
func Parse(raw any) (Descriptor, error) {
	switch typed := raw.(type) {
	case nil:
		return Stacked(), nil
	case string:
		return Descriptor{Kind: Kind(typed)}.Normalize(), nil
	case Descriptor:
		return typed.Normalize(), nil
	}

	values := toAnyMap(raw)
	if values == nil {
		return Descriptor{}, fmt.Errorf("layout: unsupported layout value %T", raw)
	}

	desc := Descriptor{Kind: Kind(strings.TrimSpace(fmt.Sprint(values["kind"])))}
	if values["kind"] == nil {
		desc.Kind = ""
	}
	columns := toAnyMap(values["columns"])
	if columns == nil {
		return desc.Normalize(), nil
	}
	if desc.Kind == "" {
		desc.Kind = KindResponsive
	}

	for _, bp := range tierBreakpoints {
		raw, ok := columns[string(bp.tier)]
		if !ok {
			raw, ok = columns[bp.key]
		}
		if !ok {
			continue
		}
		n, ok := toIntValue(raw)
		if !ok {
			return Descriptor{}, fmt.Errorf("layout: column count for tier %s must be an integer, got %v", bp.tier, raw)
		}
		switch bp.tier {
		case TierCompact:
			desc.Columns.Compact = n
		case TierMedium:
			desc.Columns.Medium = n
		case TierWide:
			desc.Columns.Wide = n
		}
	}
	return desc.Normalize(), nil
}

func toAnyMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[fmt.Sprint(key)] = v
		}
		return out
	default:
		return nil
	}
}

func toIntValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

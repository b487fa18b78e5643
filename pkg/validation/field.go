package validation

import (
	"github.com/goliatone/go-formschema/pkg/model"
)

// FromField derives a constraint description from a field's own kind and
// bounds. Kinds without bounds semantics (select, checkbox, ...) yield a
// constraint with an empty category, which describes to nothing.
func FromField(spec model.FieldSpec) Constraint {
	c := Constraint{Optional: !spec.Required}
	traits, ok := model.Traits(spec.Kind)
	if !ok {
		return c
	}

	switch traits.Bounds {
	case model.BoundsLength:
		c.Category = CategoryText
		c.Checks = appendBounds(c.Checks, spec, CheckMin, CheckMax)
		switch spec.Kind {
		case model.KindEmail:
			c.Checks = append(c.Checks, Check{Kind: CheckEmail})
		case model.KindURL:
			c.Checks = append(c.Checks, Check{Kind: CheckURL})
		}
		if spec.Pattern != "" {
			c.Checks = append(c.Checks, Check{Kind: CheckRegex, Value: spec.Pattern})
		}
	case model.BoundsValue:
		c.Category = CategoryNumber
		c.Checks = appendBounds(c.Checks, spec, CheckMin, CheckMax)
	case model.BoundsDate:
		c.Category = CategoryDate
		if spec.After != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMin, Value: *spec.After})
		}
		if spec.Before != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMax, Value: *spec.Before})
		}
	case model.BoundsCount:
		c.Category = CategoryList
		c.Checks = appendBounds(c.Checks, spec, CheckMinLength, CheckMaxLength)
	}
	return c
}

func appendBounds(checks []Check, spec model.FieldSpec, minKind, maxKind CheckKind) []Check {
	if spec.Min != nil {
		checks = append(checks, Check{Kind: minKind, Value: *spec.Min})
	}
	if spec.Max != nil {
		checks = append(checks, Check{Kind: maxKind, Value: *spec.Max})
	}
	return checks
}

// Field is a described field of a schema.
type Field struct {
	Path  string
	Label string
	Rules []string
}

// DescribeSchema describes every field of schema in rendering order.
func (d *Describer) DescribeSchema(schema *model.Schema) []Field {
	if schema == nil {
		return nil
	}
	entries := schema.Fields()
	out := make([]Field, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Field{
			Path:  entry.Path,
			Label: entry.Spec.Label,
			Rules: d.Describe(FromField(entry.Spec)),
		})
	}
	return out
}

package model

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formschema/pkg/condition"
)

// Option is one choice of a select, radio or multiselect field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// FieldConfig is the caller supplied configuration of a field. Which entries
// apply depends on the kind; see KindTraits.
type FieldConfig struct {
	Label       string
	Placeholder string
	Description string
	Required    bool
	// Min and Max bound the character count, numeric value or item count
	// depending on the kind.
	Min *float64
	Max *float64
	// After and Before bound date fields.
	After   *time.Time
	Before  *time.Time
	Pattern string
	Options []Option
	Default any
	// Accept and MaxSize apply to file fields only.
	Accept   []string
	MaxSize  int64
	ShowWhen condition.Expression
	// DependsOn names the field whose changes reset this one.
	DependsOn string
	// Widget is a renderer hint that overrides widget resolution.
	Widget string
}

// FieldSpec is the immutable description of a field held by a schema.
type FieldSpec struct {
	Kind FieldKind
	FieldConfig
}

// HasDefault reports whether a default value was configured.
func (s FieldSpec) HasDefault() bool { return s.Default != nil }

// Node is a schema member: either a *Field or a *Group.
type Node interface {
	node()
	// Err reports the construction failure recorded on the node, if any.
	Err() error
}

// Field is a constructed field value. Construction never panics: failures
// are recorded and surface when the field is placed in a group or form.
type Field struct {
	spec FieldSpec
	err  error
}

func (*Field) node() {}

// Spec returns a copy of the field description.
func (f *Field) Spec() FieldSpec {
	if f == nil {
		return FieldSpec{}
	}
	return f.spec.clone()
}

// Kind returns the field kind.
func (f *Field) Kind() FieldKind {
	if f == nil {
		return ""
	}
	return f.spec.Kind
}

// Err returns the construction error, if any.
func (f *Field) Err() error {
	if f == nil {
		return ErrNilNode
	}
	return f.err
}

// Limit returns a pointer to n for use as FieldConfig.Min or Max.
func Limit(n float64) *float64 { return &n }

// At returns a pointer to t for use as FieldConfig.After or Before.
func At(t time.Time) *time.Time { return &t }

// NewField constructs a field of any registered kind and returns the
// construction error directly.
func NewField(kind FieldKind, cfg FieldConfig) (*Field, error) {
	f := newField(kind, cfg)
	return f, f.err
}

func Text(cfg FieldConfig) *Field        { return newField(KindText, cfg) }
func Email(cfg FieldConfig) *Field       { return newField(KindEmail, cfg) }
func Password(cfg FieldConfig) *Field    { return newField(KindPassword, cfg) }
func URL(cfg FieldConfig) *Field         { return newField(KindURL, cfg) }
func Tel(cfg FieldConfig) *Field         { return newField(KindTel, cfg) }
func Textarea(cfg FieldConfig) *Field    { return newField(KindTextarea, cfg) }
func Number(cfg FieldConfig) *Field      { return newField(KindNumber, cfg) }
func Date(cfg FieldConfig) *Field        { return newField(KindDate, cfg) }
func Select(cfg FieldConfig) *Field      { return newField(KindSelect, cfg) }
func MultiSelect(cfg FieldConfig) *Field { return newField(KindMultiSelect, cfg) }
func Checkbox(cfg FieldConfig) *Field    { return newField(KindCheckbox, cfg) }
func Radio(cfg FieldConfig) *Field       { return newField(KindRadio, cfg) }
func Switch(cfg FieldConfig) *Field      { return newField(KindSwitch, cfg) }
func File(cfg FieldConfig) *Field        { return newField(KindFile, cfg) }

func newField(kind FieldKind, cfg FieldConfig) *Field {
	spec := FieldSpec{Kind: FieldKind(strings.TrimSpace(string(kind))), FieldConfig: cfg}.clone()
	spec.DependsOn = strings.TrimSpace(spec.DependsOn)
	spec.Widget = strings.TrimSpace(spec.Widget)
	return &Field{spec: spec, err: validateSpec(spec)}
}

func validateSpec(spec FieldSpec) error {
	if spec.Kind == "" {
		return &InvalidFieldError{Reason: "kind is required"}
	}
	traits, ok := Traits(spec.Kind)
	if !ok {
		return &InvalidFieldError{Kind: spec.Kind, Reason: "unknown field kind"}
	}

	var errs []error
	if traits.RequiresOptions && len(spec.Options) == 0 {
		errs = append(errs, &MissingOptionsError{Kind: spec.Kind})
	}
	if len(spec.Options) > 0 && !traits.RequiresOptions {
		errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "options are not supported"})
	}
	for i, opt := range spec.Options {
		for _, prev := range spec.Options[:i] {
			if sameValue(prev.Value, opt.Value) {
				errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "duplicate option value"})
				break
			}
		}
	}
	errs = append(errs, checkBounds(spec, traits)...)
	if spec.Pattern != "" {
		if _, err := regexp.Compile(spec.Pattern); err != nil {
			errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "invalid pattern", Err: err})
		}
	}
	if !traits.AcceptsFiles && (len(spec.Accept) > 0 || spec.MaxSize != 0) {
		errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "accept and maxSize apply to file fields only"})
	}
	if spec.MaxSize < 0 {
		errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "maxSize must not be negative"})
	}
	if spec.Default != nil && !defaultMatches(spec, traits) {
		errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: "default value does not match the field kind"})
	}
	if spec.ShowWhen != nil {
		if err := condition.Check(spec.ShowWhen); err != nil {
			errs = append(errs, &InvalidConditionError{Err: err})
		}
	}
	return errors.Join(errs...)
}

func checkBounds(spec FieldSpec, traits KindTraits) []error {
	var errs []error
	invalid := func(reason string) {
		errs = append(errs, &InvalidFieldError{Kind: spec.Kind, Reason: reason})
	}

	hasNumeric := spec.Min != nil || spec.Max != nil
	hasDate := spec.After != nil || spec.Before != nil
	switch traits.Bounds {
	case BoundsNone:
		if hasNumeric || hasDate {
			invalid("bounds are not supported")
		}
		return errs
	case BoundsDate:
		if hasNumeric {
			invalid("date fields are bounded with after and before")
		}
		if spec.After != nil && spec.Before != nil && spec.After.After(*spec.Before) {
			invalid("after must not be later than before")
		}
		return errs
	}

	if hasDate {
		invalid("after and before apply to date fields only")
	}
	if traits.Bounds == BoundsLength || traits.Bounds == BoundsCount {
		for _, bound := range []*float64{spec.Min, spec.Max} {
			if bound == nil {
				continue
			}
			if *bound < 0 || *bound != math.Trunc(*bound) {
				invalid("length and count bounds must be whole numbers >= 0")
				break
			}
		}
	}
	if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
		invalid("min must not exceed max")
	}
	return errs
}

func defaultMatches(spec FieldSpec, traits KindTraits) bool {
	value := spec.Default
	switch traits.Value {
	case ValueString:
		_, ok := value.(string)
		return ok
	case ValueNumber:
		return isNumber(value)
	case ValueBool:
		_, ok := value.(bool)
		return ok
	case ValueDate:
		switch typed := value.(type) {
		case time.Time:
			return true
		case string:
			return parseDate(typed)
		}
		return false
	case ValueOption:
		return hasOption(spec.Options, value)
	case ValueOptionList:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !hasOption(spec.Options, rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func hasOption(options []Option, value any) bool {
	for _, opt := range options {
		if sameValue(opt.Value, value) {
			return true
		}
	}
	return false
}

// sameValue compares option values, treating numbers of different Go types
// as equal when their values match.
func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if isNumber(a) && isNumber(b) {
		return toFloat(a) == toFloat(b)
	}
	return false
}

func isNumber(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(value any) float64 {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return math.NaN()
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(raw string) bool {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}

package validation

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the layout used for dates in rule text.
const DateFormat = "Jan 2, 2006"

type format func(value any) (string, bool)

type sentence struct {
	key  string
	text string
	// value formats the check value; nil means the sentence takes no value.
	value format
}

type categoryRules struct {
	intro  sentence
	checks map[CheckKind]sentence
}

var (
	textMin = sentence{key: "validation.text.min", text: "minimum %s characters", value: formatNumber}
	textMax = sentence{key: "validation.text.max", text: "maximum %s characters", value: formatNumber}
	listMin = sentence{key: "validation.list.min", text: "must contain at least %s items", value: formatNumber}
	listMax = sentence{key: "validation.list.max", text: "must contain at most %s items", value: formatNumber}
)

var rulesByCategory = map[Category]categoryRules{
	CategoryText: {
		intro: sentence{key: "validation.text.type", text: "must be a text value"},
		checks: map[CheckKind]sentence{
			CheckMin:       textMin,
			CheckMinLength: textMin,
			CheckMax:       textMax,
			CheckMaxLength: textMax,
			CheckEmail:     {key: "validation.text.email", text: "must be a valid email address"},
			CheckURL:       {key: "validation.text.url", text: "must be a valid URL"},
			CheckUUID:      {key: "validation.text.uuid", text: "must be a valid UUID"},
			CheckRegex:     {key: "validation.text.regex", text: "must match the required pattern"},
		},
	},
	CategoryNumber: {
		intro: sentence{key: "validation.number.type", text: "must be a number"},
		checks: map[CheckKind]sentence{
			CheckMin: {key: "validation.number.min", text: "must be at least %s", value: formatNumber},
			CheckMax: {key: "validation.number.max", text: "must be at most %s", value: formatNumber},
			CheckInt: {key: "validation.number.int", text: "must be an integer"},
		},
	},
	CategoryDate: {
		intro: sentence{key: "validation.date.type", text: "must be a valid date"},
		checks: map[CheckKind]sentence{
			CheckMin: {key: "validation.date.min", text: "must be after %s", value: formatDate},
			CheckMax: {key: "validation.date.max", text: "must be before %s", value: formatDate},
		},
	},
	CategoryList: {
		intro: sentence{key: "validation.list.type", text: "must be a list of items"},
		checks: map[CheckKind]sentence{
			CheckMinLength: listMin,
			CheckMin:       listMin,
			CheckMaxLength: listMax,
			CheckMax:       listMax,
		},
	},
}

var defaultDescriber = NewDescriber()

// Describe renders c as English rule sentences in declaration order.
// Unknown categories yield an empty slice.
func Describe(c Constraint) []string {
	return defaultDescriber.Describe(c)
}

// Describe renders c as rule sentences in declaration order, translated when
// a Translator is configured. Checks that do not apply to the category, or
// whose value cannot be formatted, are skipped.
func (d *Describer) Describe(c Constraint) []string {
	c = c.Strip()
	rules, ok := rulesByCategory[c.Category]
	if !ok {
		return []string{}
	}

	out := []string{d.render(rules.intro, "")}
	for _, check := range c.Checks {
		s, ok := rules.checks[check.Kind]
		if !ok {
			continue
		}
		var value string
		if s.value != nil {
			formatted, ok := s.value(check.Value)
			if !ok {
				continue
			}
			value = formatted
		}
		out = append(out, d.render(s, value))
	}
	return out
}

func (d *Describer) render(s sentence, value string) string {
	fallback := s.text
	if s.value != nil {
		fallback = fmt.Sprintf(s.text, value)
	}
	return d.translate(s.key, fallback, value)
}

func formatNumber(value any) (string, bool) {
	if v, ok := value.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "", false
		}
		return formatFloat(n, 64)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	default:
		return "", false
	}
}

func formatFloat(v float64, bitSize int) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', -1, bitSize), true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func formatDate(value any) (string, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateFormat), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return v.Format(DateFormat), true
	case string:
		raw := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(DateFormat), true
			}
		}
	}
	return "", false
}

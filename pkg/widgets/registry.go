package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formschema/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle     = "toggle"
	WidgetCheckbox   = "checkbox"
	WidgetChips      = "chips"
	WidgetRadioGroup = "radio-group"
	WidgetSelect     = "select"
	WidgetFileDrop   = "file-drop"
	WidgetDatePicker = "date-picker"
	WidgetTextarea   = "textarea"
	WidgetInput      = "input"
)

// chipsThreshold is the option count above which a multiselect renders as a
// searchable select instead of chips.
const chipsThreshold = 8

// Matcher decides whether a widget should render the supplied field.
type Matcher func(field model.FieldSpec) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on the explicit Widget hint or
// registered matchers. Higher priority wins; on ties the latest registration
// is tried first. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Widget hint is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field model.FieldSpec) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order > rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveSchema resolves a widget for every field of schema, keyed by path.
// Fields no matcher accepts are left out.
func (r *Registry) ResolveSchema(schema *model.Schema) map[string]string {
	out := make(map[string]string)
	if schema == nil {
		return out
	}
	for _, entry := range schema.Fields() {
		if widget, ok := r.Resolve(entry.Spec); ok {
			out[entry.Path] = widget
		}
	}
	return out
}

func kindIs(kinds ...model.FieldKind) Matcher {
	return func(field model.FieldSpec) bool {
		for _, kind := range kinds {
			if field.Kind == kind {
				return true
			}
		}
		return false
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, kindIs(model.KindSwitch))
	r.Register(WidgetCheckbox, 85, kindIs(model.KindCheckbox))

	r.Register(WidgetChips, 80, func(field model.FieldSpec) bool {
		return field.Kind == model.KindMultiSelect && len(field.Options) <= chipsThreshold
	})
	r.Register(WidgetRadioGroup, 75, kindIs(model.KindRadio))
	r.Register(WidgetSelect, 70, kindIs(model.KindSelect, model.KindMultiSelect))

	r.Register(WidgetFileDrop, 60, kindIs(model.KindFile))
	r.Register(WidgetDatePicker, 55, kindIs(model.KindDate))
	r.Register(WidgetTextarea, 50, kindIs(model.KindTextarea))

	r.Register(WidgetInput, 0, func(model.FieldSpec) bool { return true })
}

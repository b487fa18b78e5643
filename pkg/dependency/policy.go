// Package dependency resets dependent fields when the field they depend on
// changes value.
package dependency

import (
	"reflect"
	"sort"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Event reports that the field at path Field changed from Old to New.
type Event struct {
	Field string
	Old   any
	New   any
}

// Changed reports whether the event carries an actual value change.
func (e Event) Changed() bool {
	return !reflect.DeepEqual(e.Old, e.New)
}

// Resetter is the slice of a value-state container the policy writes to.
type Resetter interface {
	Set(field string, value any)
	Unset(field string)
}

type dependent struct {
	path       string
	hasDefault bool
	value      any
}

// Policy maps each field path to the paths of the fields that depend on it.
// It is immutable and safe for concurrent use.
type Policy struct {
	dependents map[string][]dependent
}

// NewPolicy indexes the dependsOn links of schema. A finalized schema holds
// every dependsOn as a field path. Dependents keep schema order.
func NewPolicy(schema *model.Schema) *Policy {
	p := &Policy{dependents: make(map[string][]dependent)}
	if schema == nil {
		return p
	}
	for _, entry := range schema.Fields() {
		source := entry.Spec.DependsOn
		if source == "" {
			continue
		}
		p.dependents[source] = append(p.dependents[source], dependent{
			path:       entry.Path,
			hasDefault: entry.Spec.HasDefault(),
			value:      entry.Spec.Default,
		})
	}
	return p
}

// Dependents returns the paths of the fields that depend on the field at path.
func (p *Policy) Dependents(path string) []string {
	deps := p.dependents[path]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	for idx, dep := range deps {
		out[idx] = dep.path
	}
	return out
}

// Sources lists the paths of the fields that have dependents, sorted.
func (p *Policy) Sources() []string {
	out := make([]string, 0, len(p.dependents))
	for source := range p.dependents {
		out = append(out, source)
	}
	sort.Strings(out)
	return out
}

// Handle resets every dependent of the changed field: dependents with a
// default are set back to it, the rest are unset. Events without an actual
// change are ignored. It returns the reset field paths in schema order.
// Resets performed through r may produce further events; the policy does
// not follow them itself.
func (p *Policy) Handle(event Event, r Resetter) []string {
	if r == nil || !event.Changed() {
		return nil
	}
	deps := p.dependents[event.Field]
	if len(deps) == 0 {
		return nil
	}
	reset := make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep.hasDefault {
			r.Set(dep.path, condition.CloneValue(dep.value))
		} else {
			r.Unset(dep.path)
		}
		reset = append(reset, dep.path)
	}
	return reset
}

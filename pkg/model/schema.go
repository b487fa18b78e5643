package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/layout"
)

// SkipGroup may be returned by a WalkFunc to skip the members of the group
// being visited.
var SkipGroup = errors.New("model: skip group")

// WalkFunc is called for every member in depth-first insertion order. path is
// the dotted path of the member, e.g. "account.email".
type WalkFunc func(path string, member Member) error

// FieldEntry is a field flattened out of the schema tree.
type FieldEntry struct {
	Path  string
	Name  string
	Depth int
	Spec  FieldSpec
}

// Schema is a finalised, immutable form description. Accessors return copies.
type Schema struct {
	meta    FormMeta
	members []Member
	fields  []FieldEntry
	byName  map[string]int
	byPath  map[string]int
}

func newSchema(meta FormMeta, members []Member) *Schema {
	s := &Schema{
		meta:    meta,
		members: members,
		byName:  make(map[string]int),
		byPath:  make(map[string]int),
	}
	_ = walkMembers(members, "", 0, func(path string, depth int, member Member) error {
		field, ok := member.Node.(*Field)
		if !ok {
			return nil
		}
		idx := len(s.fields)
		s.fields = append(s.fields, FieldEntry{Path: path, Name: member.Name, Depth: depth, Spec: field.spec})
		if _, exists := s.byName[member.Name]; !exists {
			s.byName[member.Name] = idx
		}
		s.byPath[path] = idx
		return nil
	})
	return s
}

// Meta returns the form metadata.
func (s *Schema) Meta() FormMeta { return s.meta }

// Members returns copies of the top-level members in insertion order.
func (s *Schema) Members() []Member {
	return cloneMembers(s.members)
}

// Walk visits every member depth first in insertion order.
func (s *Schema) Walk(fn WalkFunc) error {
	return walkMembers(s.members, "", 0, func(path string, _ int, member Member) error {
		return fn(path, Member{Name: member.Name, Node: cloneNode(member.Node)})
	})
}

func walkMembers(members []Member, prefix string, depth int, fn func(string, int, Member) error) error {
	for _, member := range members {
		path := member.Name
		if prefix != "" {
			path = prefix + "." + member.Name
		}
		err := fn(path, depth, member)
		if errors.Is(err, SkipGroup) {
			continue
		}
		if err != nil {
			return err
		}
		if group, ok := member.Node.(*Group); ok {
			if err := walkMembers(group.members, path, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fields returns every field of the schema in rendering order.
func (s *Schema) Fields() []FieldEntry {
	out := make([]FieldEntry, len(s.fields))
	for idx, entry := range s.fields {
		entry.Spec = entry.Spec.clone()
		out[idx] = entry
	}
	return out
}

// Field looks a field up by dotted path, falling back to the first field
// with the given name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	entry, ok := s.lookup(name)
	if !ok {
		return FieldSpec{}, false
	}
	return entry.Spec.clone(), true
}

// FieldEntry is like Field but also reports the path and depth.
func (s *Schema) FieldEntry(name string) (FieldEntry, bool) {
	entry, ok := s.lookup(name)
	if ok {
		entry.Spec = entry.Spec.clone()
	}
	return entry, ok
}

func (s *Schema) lookup(name string) (FieldEntry, bool) {
	if idx, ok := s.byPath[name]; ok {
		return s.fields[idx], true
	}
	if idx, ok := s.byName[name]; ok {
		return s.fields[idx], true
	}
	return FieldEntry{}, false
}

// Defaults returns the configured default of every field keyed by field path.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any)
	for _, entry := range s.fields {
		if entry.Spec.HasDefault() {
			out[entry.Path] = condition.CloneValue(entry.Spec.Default)
		}
	}
	return out
}

type schemaJSON struct {
	FormMeta
	Members []memberJSON `json:"members"`
}

type memberJSON struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Label       string             `json:"label,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Min         *float64           `json:"min,omitempty"`
	Max         *float64           `json:"max,omitempty"`
	After       *time.Time         `json:"after,omitempty"`
	Before      *time.Time         `json:"before,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	Options     []Option           `json:"options,omitempty"`
	Default     any                `json:"default,omitempty"`
	Accept      []string           `json:"accept,omitempty"`
	MaxSize     int64              `json:"maxSize,omitempty"`
	DependsOn   string             `json:"dependsOn,omitempty"`
	Widget      string             `json:"widget,omitempty"`
	Layout      *layout.Descriptor `json:"layout,omitempty"`
	ShowWhen    any                `json:"showWhen,omitempty"`
	Members     []memberJSON       `json:"members,omitempty"`
}

// MarshalJSON encodes the tree with members as ordered arrays so renderers
// see the insertion order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{FormMeta: s.meta, Members: encodeMembers(s.members)})
}

func encodeMembers(members []Member) []memberJSON {
	out := make([]memberJSON, 0, len(members))
	for _, member := range members {
		switch node := member.Node.(type) {
		case *Field:
			spec := node.spec
			entry := memberJSON{
				Name:        member.Name,
				Kind:        string(spec.Kind),
				Label:       spec.Label,
				Placeholder: spec.Placeholder,
				Description: spec.Description,
				Required:    spec.Required,
				Min:         spec.Min,
				Max:         spec.Max,
				After:       spec.After,
				Before:      spec.Before,
				Pattern:     spec.Pattern,
				Options:     spec.Options,
				Default:     spec.Default,
				Accept:      spec.Accept,
				MaxSize:     spec.MaxSize,
				DependsOn:   spec.DependsOn,
				Widget:      spec.Widget,
			}
			if spec.ShowWhen != nil {
				entry.ShowWhen = condition.Encode(spec.ShowWhen)
			}
			out = append(out, entry)
		case *Group:
			desc := node.config.Layout
			entry := memberJSON{
				Name:        member.Name,
				Kind:        "group",
				Label:       node.config.Label,
				Description: node.config.Description,
				Layout:      &desc,
				Members:     encodeMembers(node.members),
			}
			if node.config.ShowWhen != nil {
				entry.ShowWhen = condition.Encode(node.config.ShowWhen)
			}
			out = append(out, entry)
		}
	}
	return out
}

package model

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/layout"
)

// Member is a named entry of a group or form.
type Member struct {
	Name string
	Node Node
}

// Entry builds a Member. Members are passed as a slice so insertion order is
// the rendering order.
func Entry(name string, node Node) Member {
	return Member{Name: strings.TrimSpace(name), Node: node}
}

// Field returns the member's field, or nil when the member is a group.
func (m Member) Field() *Field {
	f, _ := m.Node.(*Field)
	return f
}

// Group returns the member's group, or nil when the member is a field.
func (m Member) Group() *Group {
	g, _ := m.Node.(*Group)
	return g
}

// GroupConfig configures a field group. The zero Layout is stacked.
type GroupConfig struct {
	Label       string
	Description string
	Layout      layout.Descriptor
	ShowWhen    condition.Expression
}

// Group is an ordered, named collection of fields and nested groups.
type Group struct {
	members []Member
	config  GroupConfig
	err     error
}

func (*Group) node() {}

// FieldGroup constructs a group. Failures of the group or of any member are
// recorded and reported by Err.
func FieldGroup(members []Member, cfg GroupConfig) *Group {
	cfg.Layout = cfg.Layout.Normalize()
	cfg.ShowWhen = condition.Clone(cfg.ShowWhen)
	g := &Group{
		members: cloneMembers(members),
		config:  cfg,
	}

	errs := validateMembers(g.members, "group")
	if err := cfg.Layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShowWhen != nil {
		if err := condition.Check(cfg.ShowWhen); err != nil {
			errs = append(errs, &InvalidConditionError{Err: err})
		}
	}
	g.err = errors.Join(errs...)
	return g
}

// Err returns the construction error, if any.
func (g *Group) Err() error {
	if g == nil {
		return ErrNilNode
	}
	return g.err
}

// Members returns copies of the group members in insertion order.
func (g *Group) Members() []Member {
	if g == nil {
		return nil
	}
	return cloneMembers(g.members)
}

// Config returns a copy of the group configuration.
func (g *Group) Config() GroupConfig {
	if g == nil {
		return GroupConfig{}
	}
	cfg := g.config
	cfg.ShowWhen = condition.Clone(cfg.ShowWhen)
	return cfg
}

// Label returns the group label.
func (g *Group) Label() string { return g.Config().Label }

// Layout returns the normalised layout descriptor.
func (g *Group) Layout() layout.Descriptor { return g.Config().Layout }

// ShowWhen returns a copy of the group visibility condition.
func (g *Group) ShowWhen() condition.Expression { return g.Config().ShowWhen }

func validateMembers(members []Member, scope string) []error {
	if len(members) == 0 {
		return []error{ErrEmptyGroup}
	}
	var errs []error
	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		if member.Name == "" {
			errs = append(errs, ErrEmptyName)
			continue
		}
		if _, dup := seen[member.Name]; dup {
			errs = append(errs, &DuplicateFieldNameError{Name: member.Name, Scope: scope})
			continue
		}
		seen[member.Name] = struct{}{}
		if member.Node == nil {
			errs = append(errs, memberError(member.Name, ErrNilNode))
			continue
		}
		if err := member.Node.Err(); err != nil {
			errs = append(errs, memberError(member.Name, err))
		}
	}
	return errs
}

func cloneMembers(members []Member) []Member {
	if members == nil {
		return nil
	}
	out := make([]Member, len(members))
	for idx, member := range members {
		out[idx] = Member{Name: strings.TrimSpace(member.Name), Node: cloneNode(member.Node)}
	}
	return out
}

func cloneNode(node Node) Node {
	switch typed := node.(type) {
	case *Field:
		if typed == nil {
			return typed
		}
		return &Field{spec: typed.spec.clone(), err: typed.err}
	case *Group:
		if typed == nil {
			return typed
		}
		cfg := typed.config
		cfg.ShowWhen = condition.Clone(cfg.ShowWhen)
		return &Group{members: cloneMembers(typed.members), config: cfg, err: typed.err}
	default:
		return node
	}
}

func (s FieldSpec) clone() FieldSpec {
	out := s
	if s.Min != nil {
		out.Min = Limit(*s.Min)
	}
	if s.Max != nil {
		out.Max = Limit(*s.Max)
	}
	if s.After != nil {
		out.After = At(*s.After)
	}
	if s.Before != nil {
		out.Before = At(*s.Before)
	}
	if s.Options != nil {
		out.Options = make([]Option, len(s.Options))
		for idx, opt := range s.Options {
			out.Options[idx] = Option{Label: opt.Label, Value: condition.CloneValue(opt.Value)}
		}
	}
	if s.Accept != nil {
		out.Accept = append([]string(nil), s.Accept...)
	}
	out.Default = condition.CloneValue(s.Default)
	out.ShowWhen = condition.Clone(s.ShowWhen)
	return out
}

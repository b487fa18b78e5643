package model

import (
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-formschema/internal/suggest"
	"github.com/goliatone/go-formschema/pkg/condition"
)

const defaultSubmitLabel = "Submit"

// ExternalPrefix marks condition references to context supplied outside the
// form, such as user roles or feature flags. They are not resolved against
// the schema fields.
const ExternalPrefix = "extras."

// FormMeta holds form level presentation metadata.
type FormMeta struct {
	Title       string `json:"title,omitempty" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	SubmitLabel string `json:"submitLabel,omitempty" yaml:"submitLabel"`
}

// FormBuilder collects top-level members until WithFormMeta finalises them
// into a Schema.
type FormBuilder struct {
	mu        sync.Mutex
	members   []Member
	labeler   func(string) string
	finalized bool
	err       error
}

// Form starts a form with the given top-level members.
func Form(members ...Member) *FormBuilder {
	return &FormBuilder{
		members: cloneMembers(members),
		labeler: DefaultLabeler,
	}
}

// WithLabeler overrides how missing labels are derived from member names.
// Calling it on a finalized builder records a SchemaFinalizedError, reported
// by Err.
func (b *FormBuilder) WithLabeler(labeler func(string) string) *FormBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		b.err = &SchemaFinalizedError{Operation: "WithLabeler"}
		return b
	}
	if labeler != nil {
		b.labeler = labeler
	}
	return b
}

// Err returns the error recorded by a chained call such as WithLabeler.
func (b *FormBuilder) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Add appends a top-level member.
func (b *FormBuilder) Add(name string, node Node) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return &SchemaFinalizedError{Operation: "Add"}
	}
	b.members = append(b.members, cloneMembers([]Member{Entry(name, node)})...)
	return nil
}

// WithFormMeta finalises the form. Every construction failure, duplicate
// name and unresolved condition reference is reported in one joined error.
// Once a schema has been produced the builder rejects further calls.
func (b *FormBuilder) WithFormMeta(meta FormMeta) (*Schema, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return nil, &SchemaFinalizedError{Operation: "WithFormMeta"}
	}

	if errs := validateMembers(b.members, "form"); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if strings.TrimSpace(meta.SubmitLabel) == "" {
		meta.SubmitLabel = defaultSubmitLabel
	}
	members := finalizeMembers(b.members, b.labeler)
	if err := resolveReferences(members); err != nil {
		return nil, err
	}

	b.finalized = true
	return newSchema(meta, members), nil
}

func finalizeMembers(members []Member, labeler func(string) string) []Member {
	out := make([]Member, len(members))
	for idx, member := range members {
		switch node := member.Node.(type) {
		case *Field:
			spec := node.spec.clone()
			if spec.Label == "" {
				spec.Label = labeler(member.Name)
			}
			out[idx] = Member{Name: member.Name, Node: &Field{spec: spec}}
		case *Group:
			cfg := node.config
			cfg.ShowWhen = condition.Clone(cfg.ShowWhen)
			if cfg.Label == "" {
				cfg.Label = labeler(member.Name)
			}
			out[idx] = Member{Name: member.Name, Node: &Group{
				members: finalizeMembers(node.members, labeler),
				config:  cfg,
			}}
		}
	}
	return out
}

// resolveReferences checks every showWhen leaf and dependsOn of members and
// rewrites it to the path of the field it names. A reference may be a field
// path, a field name that is unique in the form, either of those followed by a
// path into the field value, or an ExternalPrefix path. dependsOn links are
// rewritten to the field path alone and must not form cycles. members must be
// owned by the caller; nodes are updated in place.
func resolveReferences(members []Member) error {
	index := newReferenceIndex(members)

	var errs []error
	check := func(path, ref, via string) (reference, bool) {
		resolved, err := index.resolve(ref)
		if err == nil {
			return resolved, true
		}
		var ambiguous *AmbiguousReferenceError
		if errors.As(err, &ambiguous) {
			ambiguous.Path, ambiguous.Via = path, via
			errs = append(errs, ambiguous)
			return reference{}, false
		}
		dangling := &DanglingConditionReferenceError{Path: path, Reference: ref, Via: via}
		if hint, ok := suggest.Closest(ref, index.candidates); ok {
			dangling.Suggestion = hint
		}
		errs = append(errs, dangling)
		return reference{}, false
	}
	rewrite := func(path string, expr condition.Expression) condition.Expression {
		if expr == nil {
			return nil
		}
		canonical := make(map[string]string)
		for _, ref := range condition.Fields(expr) {
			if resolved, ok := check(path, ref, "showWhen"); ok {
				canonical[ref] = resolved.full
			}
		}
		return condition.RenameFields(expr, func(field string) string {
			if full, ok := canonical[field]; ok {
				return full
			}
			return field
		})
	}

	edges := make(map[string]string)
	var order []string
	_ = walkMembers(members, "", 0, func(path string, _ int, member Member) error {
		switch node := member.Node.(type) {
		case *Field:
			node.spec.ShowWhen = rewrite(path, node.spec.ShowWhen)
			order = append(order, path)
			dep := node.spec.DependsOn
			if dep == "" {
				return nil
			}
			resolved, ok := check(path, dep, "dependsOn")
			if !ok || resolved.field == "" {
				return nil
			}
			if resolved.field == path {
				errs = append(errs, memberError(path, ErrSelfDependency))
				return nil
			}
			node.spec.DependsOn = resolved.field
			edges[path] = resolved.field
		case *Group:
			node.config.ShowWhen = rewrite(path, node.config.ShowWhen)
		}
		return nil
	})
	for _, cycle := range dependencyCycles(edges, order) {
		errs = append(errs, &DependencyCycleError{Cycle: cycle})
	}
	return errors.Join(errs...)
}

// reference is a resolved condition reference. field is the path of the
// field it names, empty for ExternalPrefix references. full adds any path
// into the field value.
type reference struct {
	field string
	full  string
}

type referenceIndex struct {
	paths      map[string]struct{}
	byName     map[string][]string
	candidates []string
}

func newReferenceIndex(members []Member) referenceIndex {
	index := referenceIndex{
		paths:  make(map[string]struct{}),
		byName: make(map[string][]string),
	}
	seen := make(map[string]struct{})
	_ = walkMembers(members, "", 0, func(path string, _ int, member Member) error {
		if _, ok := member.Node.(*Field); !ok {
			return nil
		}
		index.paths[path] = struct{}{}
		index.byName[member.Name] = append(index.byName[member.Name], path)
		for _, key := range []string{member.Name, path} {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			index.candidates = append(index.candidates, key)
		}
		return nil
	})
	return index
}

func (ix referenceIndex) resolve(ref string) (reference, error) {
	if strings.HasPrefix(ref, ExternalPrefix) {
		return reference{full: ref}, nil
	}
	if _, ok := ix.paths[ref]; ok {
		return reference{field: ref, full: ref}, nil
	}
	for idx := strings.LastIndex(ref, "."); idx > 0; idx = strings.LastIndex(ref[:idx], ".") {
		if _, ok := ix.paths[ref[:idx]]; ok {
			return reference{field: ref[:idx], full: ref}, nil
		}
	}

	head, rest, dotted := strings.Cut(ref, ".")
	matches := ix.byName[head]
	switch len(matches) {
	case 0:
		return reference{}, errUnknownReference
	case 1:
		full := matches[0]
		if dotted {
			full += "." + rest
		}
		return reference{field: matches[0], full: full}, nil
	default:
		return reference{}, &AmbiguousReferenceError{Reference: ref, Candidates: append([]string(nil), matches...)}
	}
}

var errUnknownReference = errors.New("model: unknown reference")

// dependencyCycles follows the dependsOn edge of every field in order and
// returns each cycle once, as the paths along it with the first repeated.
func dependencyCycles(edges map[string]string, order []string) [][]string {
	var cycles [][]string
	done := make(map[string]bool, len(order))
	for _, start := range order {
		position := make(map[string]int)
		var chain []string
		for node := start; node != "" && !done[node]; node = edges[node] {
			if at, ok := position[node]; ok {
				cycles = append(cycles, append(append([]string(nil), chain[at:]...), node))
				break
			}
			position[node] = len(chain)
			chain = append(chain, node)
		}
		for _, node := range chain {
			done[node] = true
		}
	}
	return cycles
}

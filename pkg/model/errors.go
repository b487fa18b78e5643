package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/layout"
)

var (
	// ErrEmptyGroup is returned for a field group without members.
	ErrEmptyGroup = errors.New("model: field group requires at least one member")
	// ErrEmptyName is returned for a member registered without a name.
	ErrEmptyName = errors.New("model: member name is required")
	// ErrNilNode is returned for a member registered without a field or group.
	ErrNilNode = errors.New("model: member has no field or group")
	// ErrSelfDependency is returned for a field that depends on itself.
	ErrSelfDependency = errors.New("model: field cannot depend on itself")
	// ErrDependencyCycle is returned when dependsOn links loop back on
	// themselves through other fields.
	ErrDependencyCycle = errors.New("model: dependsOn links form a cycle")
)

// InvalidLayoutError is returned when a group layout cannot be rendered.
type InvalidLayoutError = layout.InvalidLayoutError

// DuplicateFieldNameError reports a name used twice within one mapping.
type DuplicateFieldNameError struct {
	Name  string
	Scope string
}

func (e *DuplicateFieldNameError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "form"
	}
	return fmt.Sprintf("model: duplicate field name %q in %s", e.Name, scope)
}

// MissingOptionsError reports a choice field constructed without options.
type MissingOptionsError struct {
	Kind FieldKind
}

func (e *MissingOptionsError) Error() string {
	return fmt.Sprintf("model: %s field requires options", e.Kind)
}

// SchemaFinalizedError reports a mutation attempted on a finalized form.
type SchemaFinalizedError struct {
	Operation string
}

func (e *SchemaFinalizedError) Error() string {
	return fmt.Sprintf("model: schema already finalized, %s not allowed", e.Operation)
}

// DanglingConditionReferenceError reports a showWhen leaf or dependsOn that
// names a field missing from the form.
type DanglingConditionReferenceError struct {
	// Path of the field or group holding the reference.
	Path string
	// Reference is the unresolved reference as written.
	Reference string
	// Via is "showWhen" or "dependsOn".
	Via string
	// Suggestion is the closest existing field name or path, if any.
	Suggestion string
}

func (e *DanglingConditionReferenceError) Error() string {
	msg := fmt.Sprintf("model: %s of %q references unknown field %q", e.Via, e.Path, e.Reference)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// AmbiguousReferenceError reports a bare field name in a showWhen leaf or
// dependsOn that matches fields at more than one path.
type AmbiguousReferenceError struct {
	Path       string
	Reference  string
	Via        string
	Candidates []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("model: %s of %q references ambiguous field %q, use one of %s",
		e.Via, e.Path, e.Reference, strings.Join(e.Candidates, ", "))
}

// DependencyCycleError lists the field paths of a dependsOn cycle. The first
// path is repeated at the end.
type DependencyCycleError struct {
	Cycle []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("model: dependsOn cycle %s", strings.Join(e.Cycle, " -> "))
}

func (e *DependencyCycleError) Unwrap() error { return ErrDependencyCycle }

// InvalidConditionError wraps a structurally malformed showWhen expression.
type InvalidConditionError struct {
	Path string
	Err  error
}

func (e *InvalidConditionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("model: invalid showWhen: %v", e.Err)
	}
	return fmt.Sprintf("model: invalid showWhen on %q: %v", e.Path, e.Err)
}

func (e *InvalidConditionError) Unwrap() error { return e.Err }

// InvalidFieldError reports a field configuration inconsistent with its kind.
type InvalidFieldError struct {
	Kind   FieldKind
	Reason string
	Err    error
}

func (e *InvalidFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model: invalid %s field: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("model: invalid %s field: %s", e.Kind, e.Reason)
}

func (e *InvalidFieldError) Unwrap() error { return e.Err }

// memberError prefixes a member failure with its path while keeping the
// underlying error reachable through errors.As.
func memberError(path string, err error) error {
	return fmt.Errorf("model: member %q: %w", path, err)
}

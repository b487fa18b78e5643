package dependency

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/model"
)

type mapResetter struct {
	values condition.Values
	calls  []string
}

func (m *mapResetter) Set(field string, value any) {
	m.values[field] = value
	m.calls = append(m.calls, "set:"+field)
}

func (m *mapResetter) Unset(field string) {
	delete(m.values, field)
	m.calls = append(m.calls, "unset:"+field)
}

func roleSchema(t *testing.T) *model.Schema {
	t.Helper()

	roles := []model.Option{{Label: "User", Value: "user"}, {Label: "Admin", Value: "admin"}}
	schema, err := model.Form(
		model.Entry("role", model.Select(model.FieldConfig{Options: roles})),
		model.Entry("adminCode", model.Text(model.FieldConfig{DependsOn: "role"})),
		model.Entry("access", model.FieldGroup([]model.Member{
			model.Entry("level", model.Number(model.FieldConfig{DependsOn: "role", Default: 1})),
		}, model.GroupConfig{})),
		model.Entry("notes", model.Textarea(model.FieldConfig{})),
	).WithFormMeta(model.FormMeta{})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return schema
}

func TestPolicy_RoleChangeResetsAdminCode(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(roleSchema(t))
	state := &mapResetter{values: condition.Values{"role": "admin", "adminCode": "X-1", "access.level": 7, "notes": "keep"}}

	reset := policy.Handle(Event{Field: "role", Old: "user", New: "admin"}, state)

	if diff := cmp.Diff([]string{"adminCode", "access.level"}, reset); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	if _, ok := state.values["adminCode"]; ok {
		t.Fatalf("expected adminCode to be unset, got %v", state.values["adminCode"])
	}
	if got := state.values["access.level"]; got != 1 {
		t.Fatalf("expected level to be reset to its default, got %v", got)
	}
	if got := state.values["notes"]; got != "keep" {
		t.Fatalf("expected unrelated field to be untouched, got %v", got)
	}
	if diff := cmp.Diff([]string{"unset:adminCode", "set:access.level"}, state.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPolicy_IgnoresUnchangedAndUnrelatedEvents(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(roleSchema(t))
	state := &mapResetter{values: condition.Values{"adminCode": "X-1"}}

	if reset := policy.Handle(Event{Field: "role", Old: "admin", New: "admin"}, state); reset != nil {
		t.Fatalf("expected no reset for identical values, got %v", reset)
	}
	if reset := policy.Handle(Event{Field: "notes", Old: "a", New: "b"}, state); reset != nil {
		t.Fatalf("expected no reset for a field without dependents, got %v", reset)
	}
	if reset := policy.Handle(Event{Field: "role", Old: "user", New: "admin"}, nil); reset != nil {
		t.Fatalf("expected nil resetter to be a no-op, got %v", reset)
	}
	if len(state.calls) != 0 {
		t.Fatalf("expected no resetter calls, got %v", state.calls)
	}
}

func TestPolicy_Dependents(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(roleSchema(t))
	if diff := cmp.Diff([]string{"adminCode", "access.level"}, policy.Dependents("role")); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"role"}, policy.Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
	if got := NewPolicy(nil).Dependents("role"); got != nil {
		t.Fatalf("expected empty policy, got %v", got)
	}
}

func TestPolicy_KeysRepeatedNamesByPath(t *testing.T) {
	t.Parallel()

	countries := []model.Option{{Label: "Germany", Value: "DE"}, {Label: "France", Value: "FR"}}
	schema, err := model.Form(
		model.Entry("shipping", model.FieldGroup([]model.Member{
			model.Entry("country", model.Select(model.FieldConfig{Options: countries})),
			model.Entry("state", model.Text(model.FieldConfig{DependsOn: "shipping.country"})),
		}, model.GroupConfig{})),
		model.Entry("billing", model.FieldGroup([]model.Member{
			model.Entry("country", model.Select(model.FieldConfig{Options: countries})),
			model.Entry("vat", model.Text(model.FieldConfig{DependsOn: "billing.country"})),
		}, model.GroupConfig{})),
	).WithFormMeta(model.FormMeta{})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}

	policy := NewPolicy(schema)
	if diff := cmp.Diff([]string{"billing.country", "shipping.country"}, policy.Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"shipping.state"}, policy.Dependents("shipping.country")); diff != "" {
		t.Fatalf("shipping dependents mismatch (-want +got):\n%s", diff)
	}
	if got := policy.Dependents("country"); got != nil {
		t.Fatalf("expected no dependents for a bare name, got %v", got)
	}

	state := &mapResetter{values: condition.Values{"shipping.state": "Bavaria", "billing.vat": "DE123"}}
	reset := policy.Handle(Event{Field: "billing.country", Old: "DE", New: "FR"}, state)
	if diff := cmp.Diff([]string{"billing.vat"}, reset); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	if got := state.values["shipping.state"]; got != "Bavaria" {
		t.Fatalf("expected shipping state untouched, got %v", got)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	prev := condition.Values{"role": "user", "tags": []any{"a"}, "zeta": 1, "gone": true}
	next := condition.Values{"role": "admin", "tags": []any{"a"}, "zeta": 2, "alpha": "new"}

	got := Diff(prev, next, []string{"zeta", "role"})
	want := []Event{
		{Field: "zeta", Old: 1, New: 2},
		{Field: "role", Old: "user", New: "admin"},
		{Field: "alpha", Old: nil, New: "new"},
		{Field: "gone", Old: true, New: nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Diff mismatch (-want +got):\n%s", diff)
	}
}

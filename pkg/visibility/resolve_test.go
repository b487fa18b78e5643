package visibility

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/model"
)

func buildSchema(t *testing.T) *model.Schema {
	t.Helper()

	approval := condition.AnyOf(
		condition.AllOf(condition.Equals("dept", "engineering"), condition.Equals("role", "admin")),
		condition.AllOf(condition.Equals("dept", "sales"), condition.Equals("role", "manager")),
	)
	schema, err := model.Form(
		model.Entry("dept", model.Text(model.FieldConfig{})),
		model.Entry("role", model.Text(model.FieldConfig{})),
		model.Entry("approval", model.Checkbox(model.FieldConfig{ShowWhen: approval})),
		model.Entry("advanced", model.FieldGroup([]model.Member{
			model.Entry("quota", model.Number(model.FieldConfig{})),
			model.Entry("limits", model.FieldGroup([]model.Member{
				model.Entry("burst", model.Number(model.FieldConfig{ShowWhen: condition.Truthy("quota")})),
			}, model.GroupConfig{})),
		}, model.GroupConfig{ShowWhen: condition.Equals("role", "admin")})),
		model.Entry("beta", model.Switch(model.FieldConfig{ShowWhen: condition.Truthy("extras.flags.beta")})),
	).WithFormMeta(model.FormMeta{})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return schema
}

func TestResolve_NestedConditions(t *testing.T) {
	t.Parallel()

	schema := buildSchema(t)
	cases := []struct {
		values condition.Values
		want   bool
	}{
		{values: condition.Values{"dept": "engineering", "role": "admin"}, want: true},
		{values: condition.Values{"dept": "sales", "role": "manager"}, want: true},
		{values: condition.Values{"dept": "engineering", "role": "manager"}, want: false},
	}
	for _, tc := range cases {
		if got := Resolve(schema, tc.values).Visible("approval"); got != tc.want {
			t.Fatalf("approval visible for %v = %v, want %v", tc.values, got, tc.want)
		}
	}
}

func TestResolve_HiddenGroupShortCircuits(t *testing.T) {
	t.Parallel()

	schema := buildSchema(t)
	var mu sync.Mutex
	var evaluated []string
	counting := EvaluatorFunc(func(path string, expr condition.Expression, values condition.Values) bool {
		mu.Lock()
		evaluated = append(evaluated, path)
		mu.Unlock()
		return condition.Evaluate(expr, values)
	})

	result := Resolve(schema, condition.Values{"role": "user", "advanced.quota": 5}, WithEvaluator(counting))

	if diff := cmp.Diff([]string{"approval", "advanced", "beta"}, evaluated); diff != "" {
		t.Fatalf("evaluated paths mismatch (-want +got):\n%s", diff)
	}
	wantHidden := []string{"approval", "advanced", "advanced.quota", "advanced.limits", "advanced.limits.burst", "beta"}
	if diff := cmp.Diff(wantHidden, result.Hidden()); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dept", "role"}, result.VisibleFields()); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_VisibleGroupEvaluatesDescendants(t *testing.T) {
	t.Parallel()

	schema := buildSchema(t)
	result := Resolve(schema, condition.Values{"role": "admin", "advanced.quota": 0})
	if !result.Visible("advanced.quota") {
		t.Fatalf("expected unconditional member of a visible group to be visible")
	}
	if result.Visible("advanced.limits.burst") {
		t.Fatalf("expected burst to be hidden for zero quota")
	}

	result = Resolve(schema, condition.Values{"role": "admin", "advanced.quota": 3})
	if !result.Visible("advanced.limits.burst") {
		t.Fatalf("expected burst to be visible for positive quota")
	}
}

func TestResolve_Extras(t *testing.T) {
	t.Parallel()

	schema := buildSchema(t)
	if Resolve(schema, nil).Visible("beta") {
		t.Fatalf("expected beta to be hidden without extras")
	}
	extras := map[string]any{"flags": map[string]any{"beta": true}}
	if !Resolve(schema, nil, WithExtras(extras)).Visible("beta") {
		t.Fatalf("expected beta to be visible with the flag set")
	}
}

func TestResolve_UnknownPath(t *testing.T) {
	t.Parallel()

	if Resolve(buildSchema(t), nil).Visible("nope") {
		t.Fatalf("expected unknown path to be reported hidden")
	}
	if got := Resolve(nil, nil).VisibleFields(); len(got) != 0 {
		t.Fatalf("expected nil schema to yield no fields, got %v", got)
	}
}

func TestResolve_NestedValuesSatisfyPathReferences(t *testing.T) {
	t.Parallel()

	values := condition.Values{"role": "admin", "advanced": map[string]any{"quota": 3}}
	if !Resolve(buildSchema(t), values).Visible("advanced.limits.burst") {
		t.Fatalf("expected nested values to satisfy the quota reference")
	}
}

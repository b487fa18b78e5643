package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/model"
)

func options(n int) []model.Option {
	out := make([]model.Option, n)
	for i := range out {
		out[i] = model.Option{Label: string(rune('A' + i)), Value: i}
	}
	return out
}

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	field := model.FieldSpec{Kind: model.KindSwitch, FieldConfig: model.FieldConfig{Widget: "custom-toggle"}}
	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	cases := []struct {
		name   string
		field  model.FieldSpec
		expect string
	}{
		{name: "switch", field: model.FieldSpec{Kind: model.KindSwitch}, expect: WidgetToggle},
		{name: "checkbox", field: model.FieldSpec{Kind: model.KindCheckbox}, expect: WidgetCheckbox},
		{
			name:   "short multiselect",
			field:  model.FieldSpec{Kind: model.KindMultiSelect, FieldConfig: model.FieldConfig{Options: options(3)}},
			expect: WidgetChips,
		},
		{
			name:   "long multiselect",
			field:  model.FieldSpec{Kind: model.KindMultiSelect, FieldConfig: model.FieldConfig{Options: options(12)}},
			expect: WidgetSelect,
		},
		{name: "radio", field: model.FieldSpec{Kind: model.KindRadio}, expect: WidgetRadioGroup},
		{name: "select", field: model.FieldSpec{Kind: model.KindSelect}, expect: WidgetSelect},
		{name: "file", field: model.FieldSpec{Kind: model.KindFile}, expect: WidgetFileDrop},
		{name: "date", field: model.FieldSpec{Kind: model.KindDate}, expect: WidgetDatePicker},
		{name: "textarea", field: model.FieldSpec{Kind: model.KindTextarea}, expect: WidgetTextarea},
		{name: "email falls back to input", field: model.FieldSpec{Kind: model.KindEmail}, expect: WidgetInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if _, ok := reg.Resolve(model.FieldSpec{Kind: model.KindText}); ok {
		t.Fatalf("expected empty registry to resolve nothing")
	}

	reg.Register("plain", 10, func(model.FieldSpec) bool { return true })
	reg.Register("rich", 10, func(f model.FieldSpec) bool { return f.Kind == model.KindTextarea })
	reg.Register("masked", 20, func(f model.FieldSpec) bool { return f.Kind == model.KindPassword })

	cases := map[model.FieldKind]string{
		model.KindTextarea: "rich",
		model.KindPassword: "masked",
		model.KindText:     "plain",
	}
	for kind, want := range cases {
		if got, _ := reg.Resolve(model.FieldSpec{Kind: kind}); got != want {
			t.Fatalf("%s: expected %q, got %q", kind, want, got)
		}
	}
}

func TestResolveSchema(t *testing.T) {
	t.Parallel()

	schema, err := model.Form(
		model.Entry("bio", model.Textarea(model.FieldConfig{})),
		model.Entry("prefs", model.FieldGroup([]model.Member{
			model.Entry("newsletter", model.Switch(model.FieldConfig{})),
			model.Entry("theme", model.Select(model.FieldConfig{Options: options(2), Widget: "swatches"})),
		}, model.GroupConfig{})),
	).WithFormMeta(model.FormMeta{})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}

	want := map[string]string{
		"bio":              WidgetTextarea,
		"prefs.newsletter": WidgetToggle,
		"prefs.theme":      "swatches",
	}
	if diff := cmp.Diff(want, NewRegistry().ResolveSchema(schema)); diff != "" {
		t.Fatalf("ResolveSchema mismatch (-want +got):\n%s", diff)
	}
}

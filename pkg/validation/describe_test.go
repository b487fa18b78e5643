package validation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/model"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		constraint Constraint
		want       []string
	}{
		{
			name: "text with bounds and email",
			constraint: Constraint{Category: CategoryText, Checks: []Check{
				{Kind: CheckMin, Value: 3},
				{Kind: CheckMax, Value: 20},
				{Kind: CheckEmail},
			}},
			want: []string{"must be a text value", "minimum 3 characters", "maximum 20 characters", "must be a valid email address"},
		},
		{
			name: "text formats keep declaration order",
			constraint: Constraint{Category: CategoryText, Optional: true, Nullable: true, Checks: []Check{
				{Kind: CheckRegex, Value: "^[a-z]+$"},
				{Kind: CheckUUID},
				{Kind: CheckURL},
			}},
			want: []string{"must be a text value", "must match the required pattern", "must be a valid UUID", "must be a valid URL"},
		},
		{
			name: "number",
			constraint: Constraint{Category: CategoryNumber, Checks: []Check{
				{Kind: CheckInt},
				{Kind: CheckMin, Value: 0.5},
				{Kind: CheckMax, Value: int64(100)},
			}},
			want: []string{"must be a number", "must be an integer", "must be at least 0.5", "must be at most 100"},
		},
		{
			name: "number with sized integer bounds",
			constraint: Constraint{Category: CategoryNumber, Checks: []Check{
				{Kind: CheckMin, Value: int8(3)},
				{Kind: CheckMax, Value: uint32(9)},
			}},
			want: []string{"must be a number", "must be at least 3", "must be at most 9"},
		},
		{
			name: "text with small integer bounds",
			constraint: Constraint{Category: CategoryText, Checks: []Check{
				{Kind: CheckMin, Value: uint8(2)},
				{Kind: CheckMax, Value: int16(40)},
			}},
			want: []string{"must be a text value", "minimum 2 characters", "maximum 40 characters"},
		},
		{
			name: "number with float32 and uint16 bounds",
			constraint: Constraint{Category: CategoryNumber, Checks: []Check{
				{Kind: CheckMin, Value: float32(0.1)},
				{Kind: CheckMax, Value: uint16(500)},
			}},
			want: []string{"must be a number", "must be at least 0.1", "must be at most 500"},
		},
		{
			name: "date",
			constraint: Constraint{Category: CategoryDate, Checks: []Check{
				{Kind: CheckMin, Value: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
				{Kind: CheckMax, Value: "2024-12-31"},
			}},
			want: []string{"must be a valid date", "must be after Jan 5, 2024", "must be before Dec 31, 2024"},
		},
		{
			name: "list",
			constraint: Constraint{Category: CategoryList, Checks: []Check{
				{Kind: CheckMinLength, Value: 1},
				{Kind: CheckMaxLength, Value: 5},
			}},
			want: []string{"must be a list of items", "must contain at least 1 items", "must contain at most 5 items"},
		},
		{
			name: "inapplicable and unformattable checks are skipped",
			constraint: Constraint{Category: CategoryNumber, Checks: []Check{
				{Kind: CheckEmail},
				{Kind: CheckMin},
				{Kind: CheckMax, Value: "ten"},
			}},
			want: []string{"must be a number"},
		},
		{
			name:       "unknown category",
			constraint: Constraint{Category: "object", Checks: []Check{{Kind: CheckMin, Value: 1}}},
			want:       []string{},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, Describe(tc.constraint)); diff != "" {
				t.Fatalf("Describe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescriber_Translator(t *testing.T) {
	t.Parallel()

	catalog := map[string]string{
		"validation.text.type": "doit être un texte",
		"validation.text.min":  "au moins %s caractères",
	}
	translator := TranslatorFunc(func(locale, key string, args ...any) (string, error) {
		if locale != "fr" {
			return "", errors.New("unsupported locale")
		}
		text, ok := catalog[key]
		if !ok {
			return "", errors.New("missing key")
		}
		if len(args) == 1 {
			if params, ok := args[0].(map[string]any); ok && params["value"] != "" {
				return fmt.Sprintf(text, params["value"]), nil
			}
		}
		return text, nil
	})

	var missing []string
	d := NewDescriber(
		WithTranslator(translator),
		WithLocale("fr"),
		WithMissingTranslationHandler(func(locale, key, fallback string, err error) string {
			missing = append(missing, key)
			return fallback
		}),
	)

	got := d.Describe(Constraint{Category: CategoryText, Checks: []Check{{Kind: CheckMin, Value: 2}, {Kind: CheckEmail}}})
	want := []string{"doit être un texte", "au moins 2 caractères", "must be a valid email address"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"validation.text.email"}, missing); diff != "" {
		t.Fatalf("missing keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFromField(t *testing.T) {
	t.Parallel()

	after := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		field *model.Field
		want  []string
	}{
		{
			name:  "email with bounds",
			field: model.Email(model.FieldConfig{Min: model.Limit(3), Max: model.Limit(20), Required: true}),
			want:  []string{"must be a text value", "minimum 3 characters", "maximum 20 characters", "must be a valid email address"},
		},
		{
			name:  "text pattern",
			field: model.Text(model.FieldConfig{Pattern: "^[0-9]{4}$"}),
			want:  []string{"must be a text value", "must match the required pattern"},
		},
		{
			name:  "number",
			field: model.Number(model.FieldConfig{Min: model.Limit(1)}),
			want:  []string{"must be a number", "must be at least 1"},
		},
		{
			name:  "date",
			field: model.Date(model.FieldConfig{After: model.At(after)}),
			want:  []string{"must be a valid date", "must be after Mar 1, 2024"},
		},
		{
			name: "multiselect",
			field: model.MultiSelect(model.FieldConfig{
				Options: []model.Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}},
				Max:     model.Limit(2),
			}),
			want: []string{"must be a list of items", "must contain at most 2 items"},
		},
		{
			name:  "checkbox has no rules",
			field: model.Checkbox(model.FieldConfig{}),
			want:  []string{},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.field.Err(); err != nil {
				t.Fatalf("field construction: %v", err)
			}
			if diff := cmp.Diff(tc.want, Describe(FromField(tc.field.Spec()))); diff != "" {
				t.Fatalf("FromField mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescribeSchema(t *testing.T) {
	t.Parallel()

	schema, err := model.Form(
		model.Entry("email", model.Email(model.FieldConfig{Required: true})),
		model.Entry("newsletter", model.Switch(model.FieldConfig{})),
	).WithFormMeta(model.FormMeta{})
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}

	want := []Field{
		{Path: "email", Label: "Email", Rules: []string{"must be a text value", "must be a valid email address"}},
		{Path: "newsletter", Label: "Newsletter", Rules: []string{}},
	}
	if diff := cmp.Diff(want, NewDescriber().DescribeSchema(schema)); diff != "" {
		t.Fatalf("DescribeSchema mismatch (-want +got):\n%s", diff)
	}
}

const accountsDocument = `
openapi: 3.0.3
info:
  title: Accounts
  version: "1.0"
paths: {}
components:
  schemas:
    Account:
      type: object
      required: [email, age]
      properties:
        email:
          type: string
          format: email
          minLength: 3
          maxLength: 120
        age:
          type: integer
          minimum: 18
        id:
          type: string
          format: uuid
        tags:
          type: array
          minItems: 1
          maxItems: 4
          items:
            type: string
        birthday:
          type: string
          format: date
          nullable: true
        active:
          type: boolean
`

func TestPropertiesFromOpenAPI(t *testing.T) {
	t.Parallel()

	ref, err := LoadOpenAPISchema(context.Background(), []byte(accountsDocument), "Account")
	if err != nil {
		t.Fatalf("LoadOpenAPISchema: %v", err)
	}
	props, err := PropertiesFromOpenAPI(ref)
	if err != nil {
		t.Fatalf("PropertiesFromOpenAPI: %v", err)
	}

	got := make(map[string][]string, len(props))
	var names []string
	for _, prop := range props {
		names = append(names, prop.Name)
		got[prop.Name] = Describe(prop.Constraint)
	}
	if diff := cmp.Diff([]string{"active", "age", "birthday", "email", "id", "tags"}, names); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}

	want := map[string][]string{
		"active":   {},
		"age":      {"must be a number", "must be at least 18", "must be an integer"},
		"birthday": {"must be a valid date"},
		"email":    {"must be a text value", "minimum 3 characters", "maximum 120 characters", "must be a valid email address"},
		"id":       {"must be a text value", "must be a valid UUID"},
		"tags":     {"must be a list of items", "must contain at least 1 items", "must contain at most 4 items"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("openapi rules mismatch (-want +got):\n%s", diff)
	}
	if props[1].Constraint.Optional || !props[0].Constraint.Optional {
		t.Fatalf("expected required list to drive the optional flag: %+v", props)
	}
	if !props[2].Constraint.Nullable {
		t.Fatalf("expected birthday to be nullable")
	}
}

func TestLoadOpenAPISchema_MissingComponent(t *testing.T) {
	t.Parallel()

	if _, err := LoadOpenAPISchema(context.Background(), []byte(accountsDocument), "Order"); err == nil {
		t.Fatalf("expected missing component to fail")
	}
	if _, err := FromOpenAPI(nil); err == nil {
		t.Fatalf("expected nil schema to fail")
	}
}

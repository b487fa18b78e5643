package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Property is a described property of an OpenAPI object schema.
type Property struct {
	Name       string
	Constraint Constraint
}

// FromOpenAPI translates an OpenAPI schema into a constraint description.
// Schemas whose type has no category (object, boolean, ...) yield an empty
// category.
func FromOpenAPI(ref *openapi3.SchemaRef) (Constraint, error) {
	if ref == nil || ref.Value == nil {
		return Constraint{}, errors.New("validation: openapi schema is empty")
	}
	src := ref.Value
	c := Constraint{Nullable: src.Nullable}

	switch {
	case src.Type.Is(openapi3.TypeString):
		if src.Format == "date" || src.Format == "date-time" {
			c.Category = CategoryDate
			return c, nil
		}
		c.Category = CategoryText
		if src.MinLength > 0 {
			c.Checks = append(c.Checks, Check{Kind: CheckMin, Value: src.MinLength})
		}
		if src.MaxLength != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMax, Value: *src.MaxLength})
		}
		switch strings.ToLower(src.Format) {
		case "email":
			c.Checks = append(c.Checks, Check{Kind: CheckEmail})
		case "uri", "url":
			c.Checks = append(c.Checks, Check{Kind: CheckURL})
		case "uuid":
			c.Checks = append(c.Checks, Check{Kind: CheckUUID})
		}
		if src.Pattern != "" {
			c.Checks = append(c.Checks, Check{Kind: CheckRegex, Value: src.Pattern})
		}
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		c.Category = CategoryNumber
		if src.Min != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMin, Value: *src.Min})
		}
		if src.Max != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMax, Value: *src.Max})
		}
		if src.Type.Is(openapi3.TypeInteger) {
			c.Checks = append(c.Checks, Check{Kind: CheckInt})
		}
	case src.Type.Is(openapi3.TypeArray):
		c.Category = CategoryList
		if src.MinItems > 0 {
			c.Checks = append(c.Checks, Check{Kind: CheckMinLength, Value: src.MinItems})
		}
		if src.MaxItems != nil {
			c.Checks = append(c.Checks, Check{Kind: CheckMaxLength, Value: *src.MaxItems})
		}
	}
	return c, nil
}

// PropertiesFromOpenAPI describes every property of an object schema, sorted
// by name. Properties missing from the schema's required list are optional.
func PropertiesFromOpenAPI(ref *openapi3.SchemaRef) ([]Property, error) {
	if ref == nil || ref.Value == nil {
		return nil, errors.New("validation: openapi schema is empty")
	}
	required := make(map[string]struct{}, len(ref.Value.Required))
	for _, name := range ref.Value.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(ref.Value.Properties))
	for name := range ref.Value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Property, 0, len(names))
	for _, name := range names {
		c, err := FromOpenAPI(ref.Value.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("validation: property %q: %w", name, err)
		}
		_, isRequired := required[name]
		c.Optional = !isRequired
		out = append(out, Property{Name: name, Constraint: c})
	}
	return out, nil
}

// LoadOpenAPISchema loads an OpenAPI document and returns the named component
// schema with references resolved.
func LoadOpenAPISchema(ctx context.Context, data []byte, component string) (*openapi3.SchemaRef, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("validation: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("validation: openapi document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil {
		return nil, fmt.Errorf("validation: openapi component schema %q not found", component)
	}
	return ref, nil
}

// Package formschema is the convenience entry point over the core packages:
// load form documents, resolve visibility for a value snapshot, describe
// field rules and hold values with dependency resets applied.
package formschema

import (
	"os"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/dependency"
	"github.com/goliatone/go-formschema/pkg/formstate"
	"github.com/goliatone/go-formschema/pkg/loader"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/validation"
	"github.com/goliatone/go-formschema/pkg/visibility"
)

// Schema aliases model.Schema.
type Schema = model.Schema

// Values aliases condition.Values, the path keyed snapshot conditions read.
type Values = condition.Values

// Registry aliases loader.Registry.
type Registry = loader.Registry

// LoadDir loads every .yaml, .yml and .json form document under dir.
func LoadDir(dir string, opts ...loader.Option) (*Registry, error) {
	return loader.New(opts...).LoadFS(os.DirFS(dir))
}

// Visible returns the visible field paths of schema for values, in rendering
// order.
func Visible(schema *Schema, values Values, opts ...visibility.Option) []string {
	return visibility.Resolve(schema, values, opts...).VisibleFields()
}

// Rules describes the constraints of every field of schema in English.
func Rules(schema *Schema, opts ...validation.Option) []validation.Field {
	return validation.NewDescriber(opts...).DescribeSchema(schema)
}

// NewState returns a value container seeded with the schema defaults whose
// writes reset dependent fields. The returned func detaches the reset policy.
func NewState(schema *Schema, opts ...formstate.Option) (*formstate.State, func()) {
	state := formstate.New(schema, opts...)
	return state, state.Bind(dependency.NewPolicy(schema))
}

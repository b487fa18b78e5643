// Package model builds declarative form schemas: typed fields, nested groups
// with layout descriptors, visibility conditions and dependency links.
//
// Fields and groups record construction failures instead of returning them so
// schemas can be declared as a single expression:
//
//	schema, err := model.Form(
//		model.Entry("role", model.Select(model.FieldConfig{Options: roles})),
//		model.Entry("adminCode", model.Text(model.FieldConfig{
//			ShowWhen:  condition.Equals("role", "admin"),
//			DependsOn: "role",
//		})),
//	).WithFormMeta(model.FormMeta{Title: "Account"})
//
// WithFormMeta reports every failure at once (errors.Join), resolves condition
// references and returns an immutable Schema.
package model

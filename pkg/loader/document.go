package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/layout"
	"github.com/goliatone/go-formschema/pkg/model"
)

const kindGroup = "group"

type documentFile struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	SubmitLabel string    `yaml:"submitLabel"`
	Members     yaml.Node `yaml:"members"`
}

type memberFile struct {
	Kind        string       `yaml:"kind"`
	Label       string       `yaml:"label"`
	Placeholder string       `yaml:"placeholder"`
	Description string       `yaml:"description"`
	Required    bool         `yaml:"required"`
	Min         *float64     `yaml:"min"`
	Max         *float64     `yaml:"max"`
	After       string       `yaml:"after"`
	Before      string       `yaml:"before"`
	Pattern     string       `yaml:"pattern"`
	Options     []optionFile `yaml:"options"`
	Default     any          `yaml:"default"`
	Accept      []string     `yaml:"accept"`
	MaxSize     int64        `yaml:"maxSize"`
	ShowWhen    any          `yaml:"showWhen"`
	DependsOn   string       `yaml:"dependsOn"`
	Widget      string       `yaml:"widget"`
	Layout      any          `yaml:"layout"`
	Members     yaml.Node    `yaml:"members"`
}

// optionFile accepts {label, value} mappings or bare scalars.
type optionFile struct {
	Label string
	Value any
}

func (o *optionFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		o.Value = value
		o.Label = node.Value
		return nil
	}
	var raw struct {
		Label string `yaml:"label"`
		Value any    `yaml:"value"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	o.Label = raw.Label
	o.Value = raw.Value
	if o.Label == "" && o.Value != nil {
		o.Label = fmt.Sprint(o.Value)
	}
	return nil
}

// builder turns one decoded document into a schema.
type builder struct {
	lookup condition.PredicateLookup
}

func (b builder) schema(doc documentFile, labeler func(string) string) (*model.Schema, error) {
	members, errs := b.members(&doc.Members, "")
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	form := model.Form(members...)
	if labeler != nil {
		form = form.WithLabeler(labeler)
	}
	return form.WithFormMeta(model.FormMeta{
		Title:       sanitizeText(doc.Title),
		Description: sanitizeRich(doc.Description),
		SubmitLabel: sanitizeText(doc.SubmitLabel),
	})
}

// members walks a mapping node pairwise so document order becomes member
// order.
func (b builder) members(node *yaml.Node, prefix string) ([]model.Member, []error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, []error{fmt.Errorf("loader: line %d: members of %q must be a mapping", node.Line, displayPath(prefix))}
	}

	var (
		out  []model.Member
		errs []error
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := strings.TrimSpace(keyNode.Value)
		path := joinPath(prefix, name)

		var raw memberFile
		if err := valueNode.Decode(&raw); err != nil {
			errs = append(errs, fmt.Errorf("loader: line %d: member %q: %w", valueNode.Line, path, err))
			continue
		}
		member, memberErrs := b.member(name, path, raw, valueNode.Line)
		if len(memberErrs) > 0 {
			errs = append(errs, memberErrs...)
			continue
		}
		out = append(out, member)
	}
	return out, errs
}

func (b builder) member(name, path string, raw memberFile, line int) (model.Member, []error) {
	wrap := func(err error) error {
		return fmt.Errorf("loader: line %d: member %q: %w", line, path, err)
	}

	var showWhen condition.Expression
	if raw.ShowWhen != nil {
		expr, err := condition.Decode(raw.ShowWhen, b.lookup)
		if err != nil {
			return model.Member{}, []error{wrap(err)}
		}
		showWhen = expr
	}

	kind := strings.ToLower(strings.TrimSpace(raw.Kind))
	if kind == kindGroup || (kind == "" && raw.Members.Kind != 0) {
		children, errs := b.members(&raw.Members, path)
		if len(errs) > 0 {
			return model.Member{}, errs
		}
		desc, err := layout.Parse(raw.Layout)
		if err != nil {
			return model.Member{}, []error{wrap(err)}
		}
		group := model.FieldGroup(children, model.GroupConfig{
			Label:       sanitizeText(raw.Label),
			Description: sanitizeRich(raw.Description),
			Layout:      desc,
			ShowWhen:    showWhen,
		})
		return model.Entry(name, group), nil
	}
	if kind == "" {
		kind = string(model.KindText)
	}

	cfg := model.FieldConfig{
		Label:       sanitizeText(raw.Label),
		Placeholder: sanitizeText(raw.Placeholder),
		Description: sanitizeRich(raw.Description),
		Required:    raw.Required,
		Min:         raw.Min,
		Max:         raw.Max,
		Pattern:     raw.Pattern,
		Default:     raw.Default,
		Accept:      raw.Accept,
		MaxSize:     raw.MaxSize,
		ShowWhen:    showWhen,
		DependsOn:   raw.DependsOn,
		Widget:      raw.Widget,
	}
	for _, opt := range raw.Options {
		cfg.Options = append(cfg.Options, model.Option{Label: sanitizeText(opt.Label), Value: opt.Value})
	}
	var errs []error
	if raw.After != "" {
		t, err := parseDate(raw.After)
		if err != nil {
			errs = append(errs, wrap(err))
		}
		cfg.After = &t
	}
	if raw.Before != "" {
		t, err := parseDate(raw.Before)
		if err != nil {
			errs = append(errs, wrap(err))
		}
		cfg.Before = &t
	}
	if len(errs) > 0 {
		return model.Member{}, errs
	}

	field, err := model.NewField(model.FieldKind(kind), cfg)
	if err != nil {
		return model.Member{}, []error{wrap(err)}
	}
	return model.Entry(name, field), nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", raw)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "form"
	}
	return path
}

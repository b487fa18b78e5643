package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/dependency"
	"github.com/goliatone/go-formschema/pkg/formstate"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/validation"
	"github.com/goliatone/go-formschema/pkg/visibility"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

const dateInputLayout = "2006-01-02"

// previewer walks the visible fields of a schema, prompting for each value.
// Visibility is recomputed before every prompt and dependency resets are
// applied as values change. Rule text is shown as help only; answers are
// coerced to the field's value type but not validated.
type previewer struct {
	driver    PromptDriver
	describer *validation.Describer
	widgets   *widgets.Registry
	extras    map[string]any
	logger    *zap.Logger
	styles    styles
}

func (p *previewer) run(ctx context.Context, schema *model.Schema, initial map[string]any) (condition.Values, error) {
	state := formstate.New(schema, formstate.WithValues(initial), formstate.WithLogger(p.logger))
	unbind := state.Bind(dependency.NewPolicy(schema))
	defer unbind()

	var current string
	var resets []string
	unsubscribe := state.Subscribe(func(e dependency.Event) {
		if e.Field != current {
			resets = append(resets, e.Field)
		}
	})
	defer unsubscribe()

	if meta := schema.Meta(); meta.Title != "" {
		if err := p.driver.Info(ctx, p.styles.Title.Render(meta.Title)); err != nil {
			return nil, err
		}
	}

	for _, entry := range schema.Fields() {
		result := visibility.Resolve(schema, state.Snapshot(), visibility.WithExtras(p.extras))
		if !result.Visible(entry.Path) {
			p.logger.Debug("preview: field hidden", zap.String("path", entry.Path))
			continue
		}

		existing, _ := state.Get(entry.Path)
		value, ok, err := p.prompt(ctx, entry, existing)
		if err != nil {
			return nil, err
		}

		current, resets = entry.Path, nil
		if ok {
			err = state.SetValue(entry.Path, value)
		} else {
			state.Unset(entry.Path)
		}
		current = ""
		if err != nil {
			return nil, err
		}
		for _, field := range resets {
			msg := p.styles.Muted.Render(fmt.Sprintf("  %s was reset because %s changed", field, entry.Path))
			if err := p.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
		}
	}

	snapshot := state.Snapshot()
	final := visibility.Resolve(schema, snapshot, visibility.WithExtras(p.extras))
	for _, path := range final.Hidden() {
		delete(snapshot, path)
	}
	return snapshot, nil
}

func (p *previewer) prompt(ctx context.Context, entry model.FieldEntry, existing any) (any, bool, error) {
	spec := entry.Spec
	message := spec.Label
	if message == "" {
		message = entry.Name
	}
	if spec.Required {
		message += " *"
	}
	help := p.help(spec)

	widget, _ := p.widgets.Resolve(spec)
	switch widget {
	case widgets.WidgetToggle, widgets.WidgetCheckbox:
		answer, err := p.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Help:    help,
			Default: truthy(existing),
		})
		return answer, err == nil, err

	case widgets.WidgetChips, widgets.WidgetSelect, widgets.WidgetRadioGroup:
		labels := optionLabels(spec.Options)
		if spec.Kind == model.KindMultiSelect {
			picked, err := p.driver.MultiSelect(ctx, SelectConfig{
				Message:  message,
				Help:     help,
				Options:  labels,
				Defaults: optionIndices(spec.Options, existing),
			})
			if err != nil {
				return nil, false, err
			}
			values := make([]any, 0, len(picked))
			for _, idx := range picked {
				values = append(values, spec.Options[idx].Value)
			}
			return values, len(values) > 0, nil
		}
		defaultIndex := -1
		if indices := optionIndices(spec.Options, existing); len(indices) > 0 {
			defaultIndex = indices[0]
		}
		idx, err := p.driver.Select(ctx, SelectConfig{
			Message:      message,
			Help:         help,
			Options:      labels,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(spec.Options) {
			return nil, false, fmt.Errorf("cli: selection %d out of range for %s", idx, entry.Path)
		}
		return spec.Options[idx].Value, true, nil

	case widgets.WidgetTextarea:
		answer, err := p.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Help:    help,
			Default: stringValue(existing),
		})
		return answer, err == nil && answer != "", err

	case widgets.WidgetFileDrop:
		answer, err := p.driver.Input(ctx, InputConfig{
			Message: message + " (comma separated paths)",
			Help:    help,
			Default: stringValue(existing),
		})
		if err != nil {
			return nil, false, err
		}
		var files []any
		for _, part := range strings.Split(answer, ",") {
			if part = strings.TrimSpace(part); part != "" {
				files = append(files, part)
			}
		}
		return files, len(files) > 0, nil

	case widgets.WidgetDatePicker:
		answer, err := p.driver.Input(ctx, InputConfig{
			Message:   message + " (YYYY-MM-DD)",
			Help:      help,
			Default:   stringValue(existing),
			Validator: optional(parsesDate),
		})
		answer = strings.TrimSpace(answer)
		return answer, err == nil && answer != "", err
	}

	cfg := InputConfig{
		Message: message,
		Help:    help,
		Default: stringValue(existing),
	}
	switch spec.Kind {
	case model.KindPassword:
		cfg.Default = ""
		answer, err := p.driver.Password(ctx, cfg)
		return answer, err == nil && answer != "", err
	case model.KindNumber:
		cfg.Validator = optional(parsesNumber)
		answer, err := p.driver.Input(ctx, cfg)
		if err != nil {
			return nil, false, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil, false, nil
		}
		n, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, false, fmt.Errorf("cli: %s: %w", entry.Path, err)
		}
		return n, true, nil
	default:
		answer, err := p.driver.Input(ctx, cfg)
		return answer, err == nil && answer != "", err
	}
}

func (p *previewer) help(spec model.FieldSpec) string {
	parts := p.describer.Describe(validation.FromField(spec))
	if spec.Description != "" {
		parts = append([]string{spec.Description}, parts...)
	}
	return strings.Join(parts, "; ")
}

func optional(fn func(string) error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return fn(strings.TrimSpace(s))
	}
}

func parsesNumber(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func parsesDate(s string) error {
	if _, err := time.Parse(dateInputLayout, s); err != nil {
		return fmt.Errorf("%q is not a date, expected YYYY-MM-DD", s)
	}
	return nil
}

func optionLabels(options []model.Option) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
	}
	return out
}

func optionIndices(options []model.Option, value any) []int {
	if value == nil {
		return nil
	}
	wanted := []any{value}
	if list, ok := value.([]any); ok {
		wanted = list
	}
	var out []int
	for i, opt := range options {
		for _, w := range wanted {
			if fmt.Sprint(opt.Value) == fmt.Sprint(w) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	b, _ := value.(bool)
	return b
}

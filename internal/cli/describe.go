package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formschema/pkg/validation"
)

type describeEntry struct {
	Path  string   `json:"path"`
	Label string   `json:"label,omitempty"`
	Rules []string `json:"rules"`
}

func (a *app) describeCommand() *cobra.Command {
	var (
		files     []string
		openapi   string
		component string
	)
	cmd := &cobra.Command{
		Use:   "describe [form-id]",
		Short: "Print the constraint text of every field",
		Long: `Describe prints the human-readable rule sentences of every field of a
form, in rendering order. With --openapi the properties of a component
schema of an OpenAPI document are described instead.

Examples:
  formschema describe account
  formschema describe --openapi api.yaml --component Account`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			describer := validation.NewDescriber(validation.WithLocale(a.cfg.Locale))

			var (
				title   string
				entries []describeEntry
			)
			switch {
			case openapi != "":
				if component == "" {
					return errors.New("--component is required with --openapi")
				}
				data, err := os.ReadFile(openapi)
				if err != nil {
					return fmt.Errorf("read openapi document: %w", err)
				}
				ref, err := validation.LoadOpenAPISchema(cmd.Context(), data, component)
				if err != nil {
					return err
				}
				props, err := validation.PropertiesFromOpenAPI(ref)
				if err != nil {
					return err
				}
				title = component
				for _, prop := range props {
					entries = append(entries, describeEntry{Path: prop.Name, Rules: describer.Describe(prop.Constraint)})
				}
			case len(args) == 1:
				reg, err := a.loadForms(files)
				if err != nil {
					return err
				}
				schema, ok := reg.Schema(args[0])
				if !ok {
					return fmt.Errorf("unknown form %q (known: %s)", args[0], strings.Join(reg.IDs(), ", "))
				}
				title = schema.Meta().Title
				if title == "" {
					title = args[0]
				}
				for _, field := range describer.DescribeSchema(schema) {
					entries = append(entries, describeEntry{
						Path:  field.Path,
						Label: field.Label,
						Rules: field.Rules,
					})
				}
			default:
				return errors.New("a form id or --openapi is required")
			}

			if a.jsonOutput() {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			a.printDescribe(cmd, title, entries)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "load forms from these files instead of the forms directory")
	cmd.Flags().StringVar(&openapi, "openapi", "", "OpenAPI document to describe")
	cmd.Flags().StringVar(&component, "component", "", "component schema name within the OpenAPI document")
	return cmd
}

func (a *app) printDescribe(cmd *cobra.Command, title string, entries []describeEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.styles.Title.Render(title))
	for _, entry := range entries {
		heading := a.styles.Path.Render(entry.Path)
		if entry.Label != "" && entry.Label != entry.Path {
			heading += " " + a.styles.Muted.Render("("+entry.Label+")")
		}
		fmt.Fprintln(out, heading)
		if len(entry.Rules) == 0 {
			fmt.Fprintln(out, a.styles.Rule.Render("no constraints"))
			continue
		}
		for _, rule := range entry.Rules {
			fmt.Fprintln(out, a.styles.Rule.Render("- "+rule))
		}
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formschema/pkg/validation"
	"github.com/goliatone/go-formschema/pkg/widgets"
)

func (a *app) previewCommand() *cobra.Command {
	var (
		files  []string
		extras []string
		values []string
	)
	cmd := &cobra.Command{
		Use:   "preview <form-id>",
		Short: "Walk a form interactively with live visibility",
		Long: `Preview prompts for every visible field in rendering order. Visibility is
recomputed after each answer and fields depending on a changed field are
reset. The collected values of visible fields are printed as JSON.

Examples:
  formschema preview account
  formschema preview account --extra beta=true --set role=admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extraValues, err := parseAssignments(extras)
			if err != nil {
				return err
			}
			initial, err := parseAssignments(values)
			if err != nil {
				return err
			}

			reg, err := a.loadForms(files)
			if err != nil {
				return err
			}
			schema, ok := reg.Schema(args[0])
			if !ok {
				return fmt.Errorf("unknown form %q (known: %s)", args[0], strings.Join(reg.IDs(), ", "))
			}

			p := &previewer{
				driver:    a.driver,
				describer: validation.NewDescriber(validation.WithLocale(a.cfg.Locale)),
				widgets:   widgets.NewRegistry(),
				extras:    extraValues,
				logger:    a.logger,
				styles:    a.styles,
			}
			result, err := p.run(cmd.Context(), schema, initial)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "load forms from these files instead of the forms directory")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "extra context exposed to conditions as extras.<key> (key=value, repeatable)")
	cmd.Flags().StringArrayVar(&values, "set", nil, "prefill a field value (key=value, repeatable)")
	return cmd
}

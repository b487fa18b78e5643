package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type validateReport struct {
	Forms  []validateForm `json:"forms"`
	Errors []string       `json:"errors,omitempty"`
}

type validateForm struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Fields int    `json:"fields"`
}

// errValidationFailed is returned after the failures were printed.
var errValidationFailed = errors.New("one or more form documents are invalid")

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Load form documents and report every construction error",
		Long: `Validate builds every form document into a schema and reports all
errors at once: unknown kinds, choice fields without options, invalid
bounds, malformed conditions and conditions referencing unknown fields.

Without arguments every .yaml, .yml and .json file under the forms
directory is loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadForms(args)

			var report validateReport
			if err != nil {
				report.Errors = splitErrors(err)
			} else {
				for _, id := range reg.IDs() {
					doc, _ := reg.Document(id)
					report.Forms = append(report.Forms, validateForm{
						ID:     id,
						Source: doc.Source,
						Fields: len(doc.Schema.Fields()),
					})
				}
			}
			a.logger.Info("validate finished",
				zap.Int("forms", len(report.Forms)),
				zap.Int("errors", len(report.Errors)),
			)

			if a.jsonOutput() {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return encErr
				}
			} else {
				a.printValidate(cmd, report)
			}
			if len(report.Errors) > 0 {
				return errValidationFailed
			}
			return nil
		},
	}
}

func (a *app) printValidate(cmd *cobra.Command, report validateReport) {
	out := cmd.OutOrStdout()
	for _, form := range report.Forms {
		fmt.Fprintf(out, "%s %s %s\n",
			a.styles.OK.Render("ok"),
			a.styles.Path.Render(form.ID),
			a.styles.Muted.Render(fmt.Sprintf("(%d fields, %s)", form.Fields, form.Source)),
		)
	}
	for _, line := range report.Errors {
		fmt.Fprintf(out, "%s %s\n", a.styles.Error.Render("error"), line)
	}
}

// splitErrors flattens joined errors into one line per failure.
func splitErrors(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

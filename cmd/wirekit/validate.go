// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCommand creates the `wirekit validate` command.
func newValidateCommand(app *App, root *rootOptions) *cobra.Command {
	var (
		components       []string
		warningsAsErrors bool
	)
	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate declarations without writing code",
		Long: `Compile declaration files and report every diagnostic without writing
generated code. The exit status is 1 when any error is reported.

Examples:
  wirekit validate                          Validate ./*.cue and ./*.hcl
  wirekit validate ./wire --warnings-as-errors`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.compile(cmd.Context(), root, compileRequest{
				Paths:            args,
				Components:       components,
				WarningsAsErrors: warningsAsErrors,
			})
			if err != nil {
				return app.fail(cmd, root, err)
			}
			if err := app.report(cmd, root, out); err != nil {
				return err
			}
			for _, res := range out.Results {
				fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), res.Component)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&components, "component", "c", nil, "component to validate (repeatable, default all)")
	cmd.Flags().BoolVar(&warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")

	return cmd
}

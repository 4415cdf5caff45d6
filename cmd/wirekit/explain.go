// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/issue"
	"github.com/invowk/wirekit/pkg/diag"
)

// newExplainCommand creates the `wirekit explain` command.
func newExplainCommand(app *App) *cobra.Command {
	var (
		style string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe a diagnostic code",
		Long: `Describe what a diagnostic code means and how to fix it. Without a
code, every known code is listed.

Examples:
  wirekit explain                     List diagnostic codes
  wirekit explain missing_binding     Explain one code`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}

			entry := issue.Get(diag.Code(args[0]))
			if entry == nil {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'wirekit explain' to list known codes").
					Wrap(fmt.Errorf("unknown diagnostic code %q", args[0])).
					BuildError()
			}
			if raw {
				fmt.Fprintln(app.stdout, entry.Markdown())
				return nil
			}
			rendered, err := entry.Render(style)
			if err != nil {
				return fmt.Errorf("render %s: %w", entry.Code(), err)
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source")

	return cmd
}

func listIssues(app *App) {
	fmt.Fprintln(app.stdout, TitleStyle.Render("Diagnostic codes"))
	fmt.Fprintln(app.stdout)
	for _, entry := range issue.Values() {
		fmt.Fprintf(app.stdout, "  %-34s %-11s %s\n",
			entry.Code(), entry.Code().Class(), SubtitleStyle.Render(entry.Title()))
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/issue"
)

const (
	graphFormatText graphFormat = "text"
	graphFormatDOT  graphFormat = "dot"
	graphFormatTOML graphFormat = "toml"
)

// errInvalidGraphFormat is the sentinel wrapped by invalidGraphFormatError.
var errInvalidGraphFormat = errors.New("invalid graph format")

type (
	// graphFormat selects the export format of `wirekit graph`.
	graphFormat string

	invalidGraphFormatError struct {
		Value graphFormat
	}
)

func (e *invalidGraphFormatError) Error() string {
	return fmt.Sprintf("invalid graph format %q (valid: text, dot, toml)", e.Value)
}

func (e *invalidGraphFormatError) Unwrap() error { return errInvalidGraphFormat }

// IsValid returns whether the format is one of the defined formats.
func (f graphFormat) IsValid() (bool, []error) {
	switch f {
	case graphFormatText, graphFormatDOT, graphFormatTOML:
		return true, nil
	default:
		return false, []error{&invalidGraphFormatError{Value: f}}
	}
}

// newGraphCommand creates the `wirekit graph` command.
func newGraphCommand(app *App, root *rootOptions) *cobra.Command {
	var (
		components []string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "graph [path...]",
		Short: "Export resolved binding graphs",
		Long: `Resolve components and print their binding graphs. Diagnostics are
written to stderr; a graph is printed even when validation fails.

Examples:
  wirekit graph ./wire -c App                  Text listing
  wirekit graph ./wire -c App --format dot     Graphviz DOT
  wirekit graph ./wire --format toml           TOML document per component`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := graphFormat(format)
			if ok, errs := f.IsValid(); !ok {
				return app.fail(cmd, root, issue.WrapWithContext(errs[0], "parse flags", "--format"))
			}
			out, err := app.compile(cmd.Context(), root, compileRequest{Paths: args, Components: components})
			if err != nil {
				return app.fail(cmd, root, err)
			}
			app.Diagnostics.Render(out.Diagnostics, app.stderr)

			var missing []string
			for _, res := range out.Results {
				if res.Graph == nil {
					missing = append(missing, res.Component)
					continue
				}
				switch f {
				case graphFormatDOT:
					fmt.Fprint(app.stdout, res.Graph.DOT())
				case graphFormatTOML:
					doc, err := res.Graph.TOML()
					if err != nil {
						return app.fail(cmd, root, issue.WrapWithContext(err, "export graph", res.Component))
					}
					fmt.Fprintf(app.stdout, "%s", doc)
				default:
					fmt.Fprint(app.stdout, res.Graph.Text())
				}
			}
			if len(missing) > 0 {
				return app.fail(cmd, root, issue.FromDiagnostics(out.Diagnostics.Err(), "resolve graph", strings.Join(missing, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&components, "component", "c", nil, "component to export (repeatable, default all)")
	cmd.Flags().StringVarP(&format, "format", "f", string(graphFormatText), "output format: text, dot or toml")

	return cmd
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/issue"
)

// generateOptions holds the flags of `wirekit generate`.
type generateOptions struct {
	components       []string
	out              string
	mode             string
	warningsAsErrors bool
	dryRun           bool
}

// newGenerateCommand creates the `wirekit generate` command.
func newGenerateCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Generate component implementations",
		Long: `Compile declaration files and write one generated Go file per component.

Paths may be .cue or .hcl files or directories containing them; the
current directory is used when none are given. Output goes to --out,
then output.dir from the configuration, then the directory of the
first path.

Examples:
  wirekit generate                        Generate from ./*.cue and ./*.hcl
  wirekit generate ./wire -c App          Generate only the App component
  wirekit generate ./wire --dry-run       Print the generated code`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, root, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.components, "component", "c", nil, "component to generate (repeatable, default all)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "emission mode: default or fast_init")
	cmd.Flags().BoolVar(&opts.warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print generated code instead of writing files")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, root *rootOptions, opts *generateOptions, args []string) error {
	req := compileRequest{
		Paths:            args,
		Components:       opts.components,
		Mode:             opts.mode,
		WarningsAsErrors: opts.warningsAsErrors,
	}
	out, err := app.compile(cmd.Context(), root, req)
	if err != nil {
		return app.fail(cmd, root, err)
	}
	failure := app.report(cmd, root, out)

	dir := outputDir(opts.out, out.Config, req.paths())
	for _, res := range out.Results {
		if res.Unit == nil {
			continue
		}
		if opts.dryRun {
			fmt.Fprintf(app.stdout, "%s\n%s", SubtitleStyle.Render("// "+res.Unit.FileName), res.Unit.Source)
			continue
		}
		path, err := res.Write(dir)
		if err != nil {
			return app.fail(cmd, root, issue.WrapWithContext(err, "write generated code", res.Component))
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), res.Unit.TypeName, SubtitleStyle.Render(path))
	}
	return failure
}

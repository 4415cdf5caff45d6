// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/config"
)

// newConfigCommand creates the `wirekit config` command tree.
func newConfigCommand(app *App, root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect wirekit configuration",
		Long: `Inspect wirekit configuration.

Configuration is read from ./wirekit.cue (or --config) and overridden by
WIREKIT_* environment variables, for example WIREKIT_MODE=fast_init or
WIREKIT_OUTPUT_DIR=gen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app, root); err != nil {
				return app.fail(cmd, root, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the resolved configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: root.configPath})
			if err != nil {
				return app.fail(cmd, root, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, root *rootOptions) error {
	cfg, path, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: root.configPath})
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("mode"), valueStyle.Render(string(cfg.Mode)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("warnings_as_errors"), valueStyle.Render(fmt.Sprintf("%v", cfg.WarningsAsErrors)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("output"))
	if cfg.Output.Dir == "" {
		fmt.Fprintf(w, "  dir: %s\n", SubtitleStyle.Render("(next to the declarations)"))
	} else {
		fmt.Fprintf(w, "  dir: %s\n", valueStyle.Render(cfg.Output.Dir))
	}
	fmt.Fprintf(w, "  suffix: %s\n", valueStyle.Render(cfg.Output.Suffix))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("naming"))
	fmt.Fprintf(w, "  prefix: %s\n", valueStyle.Render(cfg.Naming.Prefix))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("executor"))
	fmt.Fprintf(w, "  qualifier: %s\n", valueStyle.Render(cfg.Executor.Qualifier))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(string(cfg.Log.Format)))

	return nil
}

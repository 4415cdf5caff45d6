// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for wirekit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the wirekit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "wirekit",
		Short: "A compile-time dependency injection graph compiler",
		Long: TitleStyle.Render("wirekit") + SubtitleStyle.Render(" - A compile-time dependency injection graph compiler") + `

wirekit reads component, module and injectable declarations written in
CUE or HCL, resolves them into a binding graph, validates the graph and
generates the Go source that wires it together. Production components
get asynchronous producers scheduled on an executor.

` + SubtitleStyle.Render("Examples:") + `
  wirekit generate ./wire               Generate code for every component
  wirekit validate ./wire/app.cue       Report diagnostics without writing
  wirekit graph -c App --format dot     Export the binding graph
  wirekit explain missing_binding       Describe a diagnostic code
  wirekit config show                   Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./wirekit.cue)")

	rootCmd.AddCommand(newGenerateCommand(app, opts))
	rootCmd.AddCommand(newValidateCommand(app, opts))
	rootCmd.AddCommand(newGraphCommand(app, opts))
	rootCmd.AddCommand(newExplainCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors render their suggestions; verbose adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/wirekit/internal/compiler"
	"github.com/invowk/wirekit/internal/config"
	"github.com/invowk/wirekit/internal/emit"
	"github.com/invowk/wirekit/internal/issue"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/declfile"
	"github.com/invowk/wirekit/pkg/diag"
)

type (
	// compileRequest captures the inputs shared by generate, validate and graph.
	compileRequest struct {
		// Paths are declaration files or directories; empty means ".".
		Paths []string
		// Components restricts compilation; empty compiles every component.
		Components []string
		// Mode overrides the configured emission mode when set.
		Mode string
		// WarningsAsErrors promotes warnings when set; it never demotes.
		WarningsAsErrors bool
	}

	// compileOutcome is the result of one compilation request.
	compileOutcome struct {
		Config      *config.Config
		Results     []*compiler.Result
		Diagnostics diag.List
	}
)

func (r compileRequest) paths() []string {
	if len(r.Paths) == 0 {
		return []string{"."}
	}
	return r.Paths
}

// loadConfig loads the configuration and applies request overrides.
func (a *App) loadConfig(ctx context.Context, opts *rootOptions, req compileRequest) (*config.Config, error) {
	cfg, _, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		return nil, err
	}
	if req.Mode != "" {
		mode := emit.Mode(req.Mode)
		if ok, errs := mode.IsValid(); !ok {
			return nil, issue.NewErrorContext().
				WithOperation("parse flags").
				WithResource("--mode").
				WithSuggestion("Use --mode default or --mode fast_init").
				Wrap(errs[0]).
				BuildError()
		}
		cfg.Mode = mode
	}
	if req.WarningsAsErrors {
		cfg.WarningsAsErrors = true
	}
	return cfg, nil
}

// compile loads the declarations named by req and compiles the requested
// components. Diagnostics are returned on the outcome, never rendered here.
func (a *App) compile(ctx context.Context, opts *rootOptions, req compileRequest) (*compileOutcome, error) {
	cfg, err := a.loadConfig(ctx, opts, req)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(a.stderr, opts.verbose)

	paths := req.paths()
	model, err := declfile.Load(paths...)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load declarations").
			WithResource(strings.Join(paths, ", ")).
			WithSuggestion("Declaration files must use the .cue or .hcl extension").
			WithSuggestion("Fix the reported fields and run 'wirekit validate' again").
			Wrap(err).
			BuildError()
	}
	logger.Debug("loaded declarations", "sources", len(model.Sources()), "components", len(model.Components()))

	copts := cfg.CompilerOptions(logger)
	results, err := compileComponents(ctx, model, req.Components, copts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("compile").
			WithResource(strings.Join(paths, ", ")).
			WithSuggestion("Declare at least one entry under components").
			Wrap(errors.New("no components declared")).
			BuildError()
	}
	return &compileOutcome{Config: cfg, Results: results, Diagnostics: compiler.Diagnostics(results)}, nil
}

func compileComponents(ctx context.Context, model *decl.Model, names []string, copts compiler.Options) ([]*compiler.Result, error) {
	if len(names) == 0 {
		return compiler.CompileAll(ctx, model, copts)
	}
	results := make([]*compiler.Result, 0, len(names))
	for _, name := range names {
		res, err := compiler.Compile(ctx, model, name, copts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// report renders the diagnostics of out and converts a failed compilation
// into an ExitError carrying "wirekit explain" suggestions.
func (a *App) report(cmd *cobra.Command, opts *rootOptions, out *compileOutcome) error {
	a.Diagnostics.Render(out.Diagnostics, a.stderr)
	if !out.Diagnostics.HasErrors() {
		return nil
	}
	var failed []string
	for _, r := range out.Results {
		if r.Failed() {
			failed = append(failed, r.Component)
		}
	}
	err := issue.FromDiagnostics(out.Diagnostics.Err(), "compile", strings.Join(failed, ", "))
	return a.fail(cmd, opts, err)
}

// fail prints err with its suggestions and returns the exit error for it.
func (a *App) fail(cmd *cobra.Command, opts *rootOptions, err error) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, opts.verbose))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

// outputDir resolves where generated files go: the flag, then the
// configuration, then the directory of the first declaration path.
func outputDir(flag string, cfg *config.Config, paths []string) string {
	if flag != "" {
		return flag
	}
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	first := paths[0]
	if info, err := os.Stat(first); err == nil && info.IsDir() {
		return first
	}
	return filepath.Dir(first)
}

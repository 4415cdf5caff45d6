// SPDX-License-Identifier: MPL-2.0

// Package compiler drives one compilation unit through graph building,
// validation and emission.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/invowk/wirekit/internal/emit"
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/internal/validate"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

type (
	// Options configures a compilation.
	Options struct {
		Build graph.BuildOptions
		Emit  emit.Options
		// WarningsAsErrors turns every warning into an error.
		WarningsAsErrors bool
		// Logger receives phase events; nil discards them.
		Logger *log.Logger
	}

	// Result is the outcome for one component.
	Result struct {
		Component string
		// Unit is nil when the diagnostics carry errors.
		Unit        *emit.Unit
		Graph       *graph.Graph
		Diagnostics diag.List
	}
)

// DefaultOptions returns options with default build and emit settings.
func DefaultOptions() Options {
	return Options{Build: graph.DefaultBuildOptions(), Emit: emit.DefaultOptions()}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Failed reports whether the component could not be generated.
func (r *Result) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Compile compiles the named component. Diagnostics are returned on the
// result; the error is reserved for internal failures and cancellation.
func Compile(ctx context.Context, m *decl.Model, component string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.logger().With("component", component)
	res := &Result{Component: component}

	if c, ok := m.Component(component); ok {
		if shape := validate.Shape(c); shape.HasErrors() {
			res.Diagnostics = shape
			logger.Debug("rejected component shape", "kind", c.Kind)
			return res, nil
		}
	}

	logger.Debug("building graph")
	g, diags := graph.Build(m, component, opts.Build)
	if g == nil {
		res.Diagnostics = diags
		return res, nil
	}
	res.Graph = g
	logger.Debug("graph built", "nodes", g.Len(), "modules", len(g.Modules))

	diags = append(diags, validate.Validate(g)...)
	diags = append(diags, emit.CheckBuilder(g)...)
	diags = diags.Dedup()
	if opts.WarningsAsErrors {
		diags = diags.Promote()
	}
	res.Diagnostics = diags.Sorted()
	logger.Debug("validated", "diagnostics", len(diags), "errors", len(diags.Errors()))
	if res.Failed() {
		return res, nil
	}

	unit, err := emit.Emit(g, opts.Emit)
	if err != nil {
		var derr *diag.Error
		if errors.As(err, &derr) {
			res.Diagnostics = append(res.Diagnostics, derr.Diagnostics...).Dedup().Sorted()
			return res, nil
		}
		return nil, fmt.Errorf("emitting %s: %w", component, err)
	}
	res.Unit = unit
	logger.Debug("emitted", "file", unit.FileName, "bytes", len(unit.Source))
	return res, nil
}

// CompileAll compiles every component of the model in declaration order.
func CompileAll(ctx context.Context, m *decl.Model, opts Options) ([]*Result, error) {
	components := m.Components()
	results := make([]*Result, 0, len(components))
	for _, c := range components {
		res, err := Compile(ctx, m, c.Name, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Diagnostics merges the diagnostics of every result.
func Diagnostics(results []*Result) diag.List {
	var all diag.List
	for _, r := range results {
		all.Append(r.Diagnostics)
	}
	return all.Sorted()
}

// Write writes the generated unit into dir and returns the file path.
func (r *Result) Write(dir string) (string, error) {
	if r.Unit == nil {
		return "", fmt.Errorf("component %s has no generated code", r.Component)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, r.Unit.FileName)
	if err := os.WriteFile(path, r.Unit.Source, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

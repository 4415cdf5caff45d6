// SPDX-License-Identifier: MPL-2.0

// Package emit generates the Go implementation of a validated component.
//
// The emitter orders nodes topologically, picks a Strategy per node and
// renders one file holding the component type, its initialization and its
// builder. Output is gofmt-formatted and deterministic for a given graph.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"strings"

	"github.com/invowk/wirekit/internal/dag"
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

const (
	// ModeDefault creates every provider in the component's initialize method.
	ModeDefault Mode = "default"
	// ModeFastInit replaces unscoped provider fields with getter methods and
	// wraps them into providers only where one is requested.
	ModeFastInit Mode = "fast_init"

	// DefaultPrefix is prepended to component names to name generated types.
	DefaultPrefix = "Wired"
	// DefaultSuffix is appended to the snake-cased component name to name the file.
	DefaultSuffix = "_wire.go"

	injectImport    = "github.com/invowk/wirekit/pkg/inject"
	producersImport = "github.com/invowk/wirekit/pkg/producers"
)

var (
	// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
	ErrInvalidMode = errors.New("invalid emission mode")

	// ErrUnresolved is returned when a graph still holds missing nodes.
	ErrUnresolved = errors.New("graph has unresolved keys")
)

type (
	// Mode selects the emission strategy for unscoped provisions.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}

	// Options configures emission.
	Options struct {
		Mode   Mode
		Prefix string
		Suffix string
	}

	// Unit is one generated file.
	Unit struct {
		Component string
		// TypeName is the generated component type.
		TypeName string
		FileName string
		Source   []byte
	}
)

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid emission mode %q (valid: default, fast_init)", e.Value)
}

func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// IsValid returns whether the Mode is one of the defined modes,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeDefault, ModeFastInit:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// DefaultOptions returns the default emission options.
func DefaultOptions() Options {
	return Options{Mode: ModeDefault, Prefix: DefaultPrefix, Suffix: DefaultSuffix}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	if o.Prefix == "" {
		o.Prefix = d.Prefix
	}
	if o.Suffix == "" {
		o.Suffix = d.Suffix
	}
	return o
}

// Emit renders the implementation of the graph's component. The graph must
// have passed validation. Builder contract problems are returned as a
// *diag.Error; anything else is an internal failure.
func Emit(g *graph.Graph, opts Options) (*Unit, error) {
	opts = opts.withDefaults()
	if ok, errs := opts.Mode.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}
	if diags := CheckBuilder(g); diags.HasErrors() {
		return nil, diags.Err()
	}
	if missing := g.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, missing[0].Key)
	}

	ordered, err := Order(g)
	if err != nil {
		return nil, fmt.Errorf("ordering %s: %w", g.Component.Name, err)
	}

	p := newPlan(g, opts, ordered)
	body, err := p.render()
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", g.Component.Name, err)
	}

	var src bytes.Buffer
	src.WriteString(header(g))
	fmt.Fprintf(&src, "package %s\n\n", g.Model.Package())
	src.WriteString(importBlock(body, g.Model.Imports()))
	src.Write(body)

	formatted, err := format.Source(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", g.Component.Name, err)
	}
	return &Unit{
		Component: g.Component.Name,
		TypeName:  p.typeName,
		FileName:  snake(g.Component.Name) + opts.Suffix,
		Source:    formatted,
	}, nil
}

// Order returns the nodes so that every node follows the nodes it needs at
// initialization. Provider and lazy requests are resolved at call time and
// do not constrain the order; compiler-made edges always do.
func Order(g *graph.Graph) ([]*graph.Node, error) {
	d := dag.New()
	for _, n := range g.Nodes() {
		d.AddRankedNode(n.Key.String(), n.Rank)
	}
	for _, n := range g.Nodes() {
		for _, e := range n.Edges {
			if e.Request.Deferred() && !e.Implicit {
				continue
			}
			d.AddEdge(e.To.String(), n.Key.String())
		}
	}
	names, err := d.TopologicalSort()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*graph.Node, g.Len())
	for _, n := range g.Nodes() {
		byName[n.Key.String()] = n
	}
	out := make([]*graph.Node, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out, nil
}

// CheckBuilder reports a declared builder contract that cannot build the
// component: a module that must be supplied has no setter, or a setter names
// a module the component does not use.
func CheckBuilder(g *graph.Graph) diag.List {
	b := g.Component.Builder
	if b == nil {
		return nil
	}
	var diags diag.List
	used := make(map[string]decl.Module, len(g.Modules))
	for _, mod := range g.Modules {
		used[mod.Name] = mod
	}
	for _, setter := range b.Setters {
		mod, ok := used[setter]
		if !ok || !mod.NeedsInstance() {
			diags.Add(diag.Errorf(diag.CodeBuilderUnknownModule, b.Pos,
				"builder %s declares a setter for %s, which is not an instance module of %s", b.Name, setter, g.Component.Name))
		}
	}
	for _, mod := range g.Modules {
		if mod.NeedsInstance() && !mod.Defaultable() && !slices.Contains(b.Setters, mod.Name) {
			diags.Add(diag.Errorf(diag.CodeBuilderMissingSetter, b.Pos,
				"builder %s has no setter for %s, which cannot be defaulted", b.Name, mod.Name))
		}
	}
	return diags.WithComponent(g.Component.Name)
}

func header(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("// Code generated by wirekit. DO NOT EDIT.\n")
	if sources := g.Model.Sources(); len(sources) > 0 {
		fmt.Fprintf(&b, "// Source: %s\n", strings.Join(sources, ", "))
	}
	fmt.Fprintf(&b, "// Digest: %s\n\n", g.Model.Digest())
	return b.String()
}

// importBlock returns the imports the rendered body refers to: the runtime
// packages, errors and the declared imports whose qualifier appears.
func importBlock(body []byte, declared []decl.Import) string {
	type spec struct{ alias, path string }
	var std, other []spec
	seen := make(map[string]bool)
	add := func(list *[]spec, s spec) {
		if !seen[s.path] {
			seen[s.path] = true
			*list = append(*list, s)
		}
	}

	if usesQualifier(body, "errors") {
		add(&std, spec{path: "errors"})
	}
	for _, imp := range declared {
		if !usesQualifier(body, imp.Qualifier()) {
			continue
		}
		s := spec{alias: imp.Alias, path: imp.Path}
		if isStdlib(imp.Path) {
			add(&std, s)
		} else {
			add(&other, s)
		}
	}
	if usesQualifier(body, "inject") {
		add(&other, spec{path: injectImport})
	}
	if usesQualifier(body, "producers") {
		add(&other, spec{path: producersImport})
	}
	if len(std)+len(other) == 0 {
		return ""
	}

	byPath := func(a, b spec) int { return strings.Compare(a.path, b.path) }
	slices.SortFunc(std, byPath)
	slices.SortFunc(other, byPath)

	var b strings.Builder
	b.WriteString("import (\n")
	for i, group := range [][]spec{std, other} {
		if i > 0 && len(std) > 0 && len(other) > 0 {
			b.WriteByte('\n')
		}
		for _, s := range group {
			if s.alias != "" {
				fmt.Fprintf(&b, "\t%s %q\n", s.alias, s.path)
			} else {
				fmt.Fprintf(&b, "\t%q\n", s.path)
			}
		}
	}
	b.WriteString(")\n\n")
	return b.String()
}

// usesQualifier reports whether body refers to q as a package qualifier.
func usesQualifier(body []byte, q string) bool {
	needle := []byte(q + ".")
	for i := 0; ; {
		j := bytes.Index(body[i:], needle)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isIdentOrDot(body[at-1]) {
			return true
		}
		i = at + len(needle)
	}
}

func isIdentOrDot(b byte) bool {
	return b == '.' || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

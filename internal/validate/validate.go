// SPDX-License-Identifier: MPL-2.0

// Package validate checks a binding graph before code is emitted.
//
// Checks run in a fixed priority order and every finding is collected, with
// one exception: a component of the wrong shape is reported alone, since
// nothing else about it is meaningful.
package validate

import (
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

// Validate runs every check against g and returns the findings in priority order.
func Validate(g *graph.Graph) diag.List {
	if shape := Shape(g.Component); shape.HasErrors() {
		return shape
	}

	v := &validator{g: g}
	v.modules()
	v.missing()
	v.executorDependencies()
	v.nullability()
	v.cycles()
	v.scopes()
	v.production()
	v.requests()
	v.multibindings()
	return v.diags.WithComponent(g.Component.Name)
}

// Shape checks that the component is declared on an interface.
func Shape(c decl.Component) diag.List {
	if c.Kind == decl.ComponentInterface {
		return nil
	}
	annotation := "@Component"
	if c.Production {
		annotation = "@ProductionComponent"
	}
	d := diag.Errorf(diag.CodeComponentNotInterface, c.Pos,
		"%s may only be applied to an interface, but %s is declared on a %s", annotation, c.Name, c.Kind)
	d.Component = c.Name
	return diag.List{d}
}

type validator struct {
	g     *graph.Graph
	diags diag.List
}

func (v *validator) add(d diag.Diagnostic) {
	v.diags.Add(d)
}

// modules reports references that do not name an annotated module.
func (v *validator) modules() {
	for _, ref := range v.g.Unresolved {
		if ref.Declared {
			v.add(diag.Errorf(diag.CodeModuleNotAnnotated, ref.Pos,
				"%s is not annotated with one of @Module, @ProducerModule", ref.Name))
			continue
		}
		v.add(diag.Errorf(diag.CodeUnknownModule, ref.Pos,
			"%s is not annotated with one of @Module, @ProducerModule; no such module is declared (referenced by %s)", ref.Name, ref.Via))
	}
}

// requester returns the position of the first request for k, falling back
// to the component position.
func (v *validator) requester(k decl.Key) decl.Position {
	for _, ep := range v.g.EntryPoints {
		if ep.Key == k {
			return ep.Accessor.Pos
		}
	}
	for _, e := range v.g.Dependents(k) {
		if !e.Pos.IsZero() {
			return e.Pos
		}
		if n := v.g.Node(e.From); n != nil && !n.Pos().IsZero() {
			return n.Pos()
		}
	}
	return v.g.Component.Pos
}

// entryName returns the accessor name that requests k, for request trails.
func (v *validator) entryName(k decl.Key) string {
	for _, ep := range v.g.EntryPoints {
		if ep.Key == k {
			return v.g.Component.Name + "." + ep.Accessor.Name + "()"
		}
	}
	return ""
}

// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"slices"
	"strings"

	"github.com/invowk/wirekit/internal/dag"
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

// missing reports every key reachable from an accessor that nothing provides.
func (v *validator) missing() {
	for _, n := range v.g.Missing() {
		msg := n.Key.String() + " cannot be provided without a binding"
		if n.Key == v.g.ExecutorKey {
			msg += "; producers need an executor bound to " + v.g.ExecutorKey.String()
		}
		if trail := v.trail(n.Key); trail != "" {
			msg += "\n    requested by: " + trail
		}
		v.add(diag.Errorf(diag.CodeMissingBinding, v.requester(n.Key), "%s", msg))
	}
}

func (v *validator) trail(k decl.Key) string {
	path := v.g.PathTo(k)
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, 0, len(path)+1)
	if name := v.entryName(path[0]); name != "" {
		parts = append(parts, name)
	}
	for _, p := range path {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " -> ")
}

// executorDependencies reports producers whose declared dependency closure
// reaches the production executor. Compiler-made edges are not followed.
func (v *validator) executorDependencies() {
	for _, n := range v.g.Nodes() {
		if n.Kind != graph.KindProduction {
			continue
		}
		if v.reaches(n.Key, v.g.ExecutorKey) {
			v.add(diag.Errorf(diag.CodeDependsOnProductionExecutor, n.Pos(),
				"%s may not depend on the production executor", n.Label()))
		}
	}
}

func (v *validator) reaches(from, target decl.Key) bool {
	seen := map[decl.Key]bool{from: true}
	stack := []decl.Key{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := v.g.Node(cur)
		if n == nil {
			continue
		}
		for _, e := range n.Edges {
			if e.Implicit {
				continue
			}
			if e.To == target {
				return true
			}
			if !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	return false
}

// nullability warns once per nullable producer declaration and rejects
// nullable provisions flowing into synchronous consumers that do not accept nil.
func (v *validator) nullability() {
	for _, mod := range v.g.Modules {
		for _, b := range mod.Bindings {
			if b.IsProducer() && b.Nullable {
				v.add(diag.Warnf(diag.CodeNullableProducer, b.Pos,
					"%s: @Nullable on @Produces methods does not do anything", b.ContributionKey()))
			}
		}
	}

	nullableTarget := func(k decl.Key) *graph.Node {
		n := v.g.Node(k)
		if n == nil || n.Kind != graph.KindProvision || !n.Nullable() {
			return nil
		}
		return n
	}

	for _, n := range v.g.Nodes() {
		if n.Kind != graph.KindProvision && n.Kind != graph.KindInjection {
			continue
		}
		for _, e := range n.Edges {
			if e.Implicit || e.Nullable || e.Request != decl.RequestInstance {
				continue
			}
			if target := nullableTarget(e.To); target != nil {
				pos := e.Pos
				if pos.IsZero() {
					pos = n.Pos()
				}
				v.add(diag.Errorf(diag.CodeNullableMismatch, pos,
					"%s is not nullable, but is being provided by nullable %s (requested by %s)", e.To, target.Label(), n.Label()))
			}
		}
	}
	for _, ep := range v.g.EntryPoints {
		if ep.Accessor.Kind != decl.AccessorInstance || ep.Accessor.Nullable {
			continue
		}
		if target := nullableTarget(ep.Key); target != nil {
			v.add(diag.Errorf(diag.CodeNullableMismatch, ep.Accessor.Pos,
				"%s is not nullable, but is being provided by nullable %s (requested by %s())", ep.Key, target.Label(), ep.Accessor.Name))
		}
	}
}

// cycles reports every dependency cycle that no provider, lazy or producer request breaks.
func (v *validator) cycles() {
	d := dag.New()
	byName := make(map[string]*graph.Node)
	for _, n := range v.g.Nodes() {
		d.AddNode(n.Key.String())
		byName[n.Key.String()] = n
	}
	for _, n := range v.g.Nodes() {
		for _, e := range n.Edges {
			if e.Implicit || e.Request.Deferred() {
				continue
			}
			d.AddEdge(n.Key.String(), e.To.String())
		}
	}
	for _, cycle := range d.FindCycles() {
		labels := make([]string, len(cycle))
		for i, name := range cycle {
			labels[i] = name
			if n := byName[name]; n != nil && (n.Binding != nil || n.Injectable != nil) {
				labels[i] = name + " (" + n.Label() + ")"
			}
		}
		v.add(diag.Errorf(diag.CodeDependencyCycle, byName[cycle[0]].Pos(),
			"found a dependency cycle:\n    %s\n    break it by requesting one of these keys as a provider, lazy or producer",
			strings.Join(labels, "\n    -> ")))
	}
}

// scopes checks scoped declarations against the scopes the component declares.
func (v *validator) scopes() {
	for _, n := range v.g.Nodes() {
		scope := n.Scope()
		if scope == decl.Unscoped {
			continue
		}
		if n.Kind == graph.KindProduction {
			v.add(diag.Errorf(diag.CodeScopedProducer, n.Pos(),
				"@Produces methods may not be scoped, but %s is scoped @%s", n.Label(), scope))
			continue
		}
		if !slices.Contains(v.g.Component.Scopes, scope) {
			v.add(diag.Errorf(diag.CodeScopeMismatch, n.Pos(),
				"%s is scoped @%s, which component %s does not declare", n.Label(), scope, v.g.Component.Name))
		}
	}
}

// production enforces where asynchronous bindings may appear.
func (v *validator) production() {
	c := v.g.Component
	if !c.Production {
		for _, mod := range v.g.Modules {
			if mod.Kind == decl.ModuleProducer {
				v.add(diag.Errorf(diag.CodeProducerInProvision, mod.Pos,
					"@Component %s may not include @ProducerModule %s", c.Name, mod.Name))
			}
		}
	}

	for _, n := range v.g.Nodes() {
		switch {
		case n.Kind == graph.KindProduction && !c.Production:
			v.add(diag.Errorf(diag.CodeProducerInProvision, n.Pos(),
				"%s is a producer and cannot be requested from non-production component %s", n.Label(), c.Name))
		case !n.Synchronous():
			continue
		case n.Kind == graph.KindProvision || n.Kind == graph.KindInjection || n.Kind == graph.KindSet || n.Kind == graph.KindMap:
			for _, e := range n.Edges {
				if target := v.g.Node(e.To); target != nil && target.Kind == graph.KindProduction {
					pos := e.Pos
					if pos.IsZero() {
						pos = n.Pos()
					}
					v.add(diag.Errorf(diag.CodeProviderDependsOnProducer, pos,
						"%s is a provision and may not depend on producer %s", n.Label(), target.Label()))
				}
			}
		}
	}

	if !c.Production {
		return
	}
	for _, ep := range v.g.EntryPoints {
		if ep.Accessor.Kind == decl.AccessorFuture {
			continue
		}
		if target := v.g.Node(ep.Key); target != nil && target.Kind == graph.KindProduction {
			v.add(diag.Errorf(diag.CodeEntryPointNotDeferred, ep.Accessor.Pos,
				"%s() requests producer %s as %s; production entry points must return a future", ep.Accessor.Name, target.Label(), ep.Accessor.Kind))
		}
	}
}

// requests rejects request kinds the requester cannot be wired with.
// Provisions never see producer views, and producers only wait on other
// producers through futures.
func (v *validator) requests() {
	for _, n := range v.g.Nodes() {
		if n.Kind == graph.KindComponent || n.Kind == graph.KindExecutor || n.Kind == graph.KindMonitor {
			continue
		}
		for _, e := range n.Edges {
			if e.Implicit {
				continue
			}
			target := v.g.Node(e.To)
			if target == nil {
				continue
			}
			pos := e.Pos
			if pos.IsZero() {
				pos = n.Pos()
			}
			switch {
			case n.Synchronous() && target.Kind != graph.KindProduction &&
				(e.Request == decl.RequestProducer || e.Request == decl.RequestProduced):
				v.add(diag.Errorf(diag.CodeUnsupportedRequest, pos,
					"%s requests %s as %s, but only @Produces methods may request producer or produced values", n.Label(), e.To, e.Request))
			case n.Kind == graph.KindProduction && target.Kind == graph.KindProduction &&
				(e.Request == decl.RequestProvider || e.Request == decl.RequestLazy):
				v.add(diag.Errorf(diag.CodeUnsupportedRequest, pos,
					"%s requests producer %s as %s; request it as an instance, producer or produced value", n.Label(), target.Label(), e.Request))
			}
		}
	}
}

// multibindings checks contribution declarations of the usable modules.
func (v *validator) multibindings() {
	mapKeys := make(map[decl.Key]map[string]decl.Binding)
	for _, mod := range v.g.Modules {
		for _, b := range mod.Bindings {
			if b.Multibinding == decl.MultibindingNone {
				continue
			}
			if b.IsProducer() {
				v.add(diag.Errorf(diag.CodeProducerMultibinding, b.Pos,
					"%s: @Produces methods may not contribute to multibindings", b.ContributionKey()))
				continue
			}
			switch b.Multibinding {
			case decl.MultibindingSetValues:
				if !b.Provides.Type.IsSlice() {
					v.add(diag.Errorf(diag.CodeSetValuesNotSlice, b.Pos,
						"%s contributes elements into a set, so it must return a slice, not %s", b.ContributionKey(), b.Provides.Type))
				}
			case decl.MultibindingMap:
				if b.MapKey == nil || b.MapKey.Literal == "" {
					v.add(diag.Errorf(diag.CodeMapKeyMissing, b.Pos,
						"%s contributes into a map but declares no map key", b.ContributionKey()))
					continue
				}
				key := b.BoundKey()
				if mapKeys[key] == nil {
					mapKeys[key] = make(map[string]decl.Binding)
				}
				if first, dup := mapKeys[key][b.MapKey.Literal]; dup {
					v.add(diag.Errorf(diag.CodeDuplicateMapKey, b.Pos,
						"%s uses map key %s, already used by %s for %s", b.ContributionKey(), b.MapKey.Literal, first.ContributionKey(), key))
					continue
				}
				mapKeys[key][b.MapKey.Literal] = b
			}
		}
	}
}

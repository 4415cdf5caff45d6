// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"
	"strings"

	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

type (
	// BuildOptions configures graph construction.
	BuildOptions struct {
		// ExecutorKey is the key of the executor producers run on.
		ExecutorKey decl.Key
	}

	rankedBinding struct {
		binding decl.Binding
		rank    int
	}

	multibound struct {
		kind          NodeKind
		contributions []rankedBinding
		seen          map[string]bool
	}

	builder struct {
		model *decl.Model
		g     *Graph
		diags diag.List

		explicit map[decl.Key][]rankedBinding
		multi    map[decl.Key]*multibound
		keyOrder []decl.Key

		injectableBase int
	}
)

// DefaultBuildOptions returns options using the production executor key.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{ExecutorKey: decl.ProductionExecutorKey()}
}

// Build resolves the binding graph of the named component. The returned
// diagnostics cover what only the builder can see: an unknown component and
// keys bound more than once. Everything else is left to the validator.
// The graph is nil only when the component does not exist.
func Build(m *decl.Model, component string, opts BuildOptions) (*Graph, diag.List) {
	var diags diag.List
	comp, ok := m.Component(component)
	if !ok {
		diags.Add(diag.Errorf(diag.CodeUnknownComponent, decl.Position{}, "component %s is not declared", component))
		return nil, diags
	}
	if opts.ExecutorKey.IsZero() {
		opts.ExecutorKey = decl.ProductionExecutorKey()
	}

	b := &builder{
		model: m,
		g: &Graph{
			Component:   comp,
			Model:       m,
			ExecutorKey: opts.ExecutorKey,
			nodes:       make(map[decl.Key]*Node),
		},
		explicit: make(map[decl.Key][]rankedBinding),
		multi:    make(map[decl.Key]*multibound),
	}
	b.collectModules()
	b.index()
	b.reportDuplicates()

	for _, a := range comp.Accessors {
		b.g.EntryPoints = append(b.g.EntryPoints, EntryPoint{Accessor: a, Key: a.Key})
		b.resolve(a.Key)
	}
	if comp.Production && b.g.HasProduction() {
		b.wireProduction()
	}

	return b.g, append(diags, b.diags.WithComponent(comp.Name)...)
}

// collectModules expands module references depth-first in declaration order.
func (b *builder) collectModules() {
	seen := make(map[string]bool)
	var visit func(name, via string, pos decl.Position)
	visit = func(name, via string, pos decl.Position) {
		if seen[name] {
			return
		}
		seen[name] = true
		mod, ok := b.model.Module(name)
		if !ok {
			b.g.Unresolved = append(b.g.Unresolved, ModuleRef{Name: name, Via: via, Pos: pos})
			return
		}
		if !mod.Kind.Annotated() {
			b.g.Unresolved = append(b.g.Unresolved, ModuleRef{Name: name, Via: via, Declared: true, Pos: mod.Pos})
			return
		}
		b.g.Modules = append(b.g.Modules, mod)
		for _, inc := range mod.Includes {
			visit(inc, mod.Name, mod.Pos)
		}
	}
	for _, name := range b.g.Component.Modules {
		visit(name, b.g.Component.Name, b.g.Component.Pos)
	}
}

// index records every binding of the usable modules under its bound key.
func (b *builder) index() {
	rank := 0
	for _, mod := range b.g.Modules {
		for _, bind := range mod.Bindings {
			key := bind.BoundKey()
			rb := rankedBinding{binding: bind, rank: rank}
			rank++
			if _, known := b.explicit[key]; !known && b.multi[key] == nil {
				b.keyOrder = append(b.keyOrder, key)
			}
			if bind.Multibinding == decl.MultibindingNone {
				b.explicit[key] = append(b.explicit[key], rb)
				continue
			}
			mb := b.multi[key]
			if mb == nil {
				kind := KindSet
				if bind.Multibinding == decl.MultibindingMap {
					kind = KindMap
				}
				mb = &multibound{kind: kind, seen: make(map[string]bool)}
				b.multi[key] = mb
			}
			if mb.seen[bind.ContributionKey()] {
				continue
			}
			mb.seen[bind.ContributionKey()] = true
			mb.contributions = append(mb.contributions, rb)
		}
	}
	b.injectableBase = rank
}

func (b *builder) reportDuplicates() {
	for _, key := range b.keyOrder {
		explicit := b.explicit[key]
		mb := b.multi[key]
		if len(explicit) < 2 && (len(explicit) == 0 || mb == nil) {
			continue
		}
		var lines []string
		for _, rb := range explicit {
			lines = append(lines, fmt.Sprintf("%s at %s", rb.binding.ContributionKey(), rb.binding.Pos))
		}
		if mb != nil {
			for _, rb := range mb.contributions {
				lines = append(lines, fmt.Sprintf("%s at %s (multibinding)", rb.binding.ContributionKey(), rb.binding.Pos))
			}
		}
		b.diags.Add(diag.Errorf(diag.CodeDuplicateBinding, explicit[0].binding.Pos,
			"%s is bound multiple times:\n    %s", key, strings.Join(lines, "\n    ")))
	}
}

// resolve returns the node for key, creating it and its dependencies on first use.
func (b *builder) resolve(key decl.Key) *Node {
	if n := b.g.nodes[key]; n != nil {
		return n
	}
	n := b.lookup(key)
	b.g.nodes[key] = n
	b.g.order = append(b.g.order, n)
	for _, e := range n.Edges {
		b.resolve(e.To)
	}
	return n
}

func (b *builder) lookup(key decl.Key) *Node {
	if bs := b.explicit[key]; len(bs) > 0 {
		bind := bs[0].binding
		kind := KindProvision
		if bind.IsProducer() {
			kind = KindProduction
		}
		return &Node{Key: key, Kind: kind, Binding: &bind, Rank: bs[0].rank, Edges: edgesFrom(key, bind.Params)}
	}
	if mb := b.multi[key]; mb != nil {
		n := &Node{Key: key, Kind: mb.kind, Rank: mb.contributions[0].rank}
		for _, rb := range mb.contributions {
			n.Contributions = append(n.Contributions, rb.binding)
			n.Edges = append(n.Edges, edgesFrom(key, rb.binding.Params)...)
		}
		return n
	}
	if key.Qualifier == "" {
		if inj, ok := b.model.Injectable(key.Type); ok {
			return &Node{
				Key:        key,
				Kind:       KindInjection,
				Injectable: &inj,
				Rank:       b.injectableBase + b.model.InjectableRank(key.Type),
				Edges:      edgesFrom(key, inj.Params),
			}
		}
	}
	switch key {
	case b.g.ComponentKey():
		return &Node{Key: key, Kind: KindComponent, Rank: -1}
	case decl.MonitorFactoriesKey():
		// The monitor factory set is optional: absent contributions mean an empty set.
		return &Node{Key: key, Kind: KindSet, Rank: b.syntheticRank(0)}
	}
	return &Node{Key: key, Kind: KindMissing, Rank: b.syntheticRank(3)}
}

// wireProduction adds the executor and monitor every producer runs with.
func (b *builder) wireProduction() {
	exec := &Node{
		Key:  ExecutorImplKey,
		Kind: KindExecutor,
		Rank: b.syntheticRank(1),
		Edges: []Edge{{
			From: ExecutorImplKey, To: b.g.ExecutorKey, Request: decl.RequestInstance, Implicit: true,
		}},
	}
	monitor := &Node{
		Key:  MonitorKey,
		Kind: KindMonitor,
		Rank: b.syntheticRank(2),
		Edges: []Edge{
			{From: MonitorKey, To: b.g.ComponentKey(), Request: decl.RequestProvider, Implicit: true},
			{From: MonitorKey, To: decl.MonitorFactoriesKey(), Request: decl.RequestInstance, Implicit: true},
		},
	}

	producers := make([]*Node, 0)
	for _, n := range b.g.order {
		if n.Kind == KindProduction {
			producers = append(producers, n)
		}
	}
	for _, n := range []*Node{exec, monitor} {
		b.g.nodes[n.Key] = n
		b.g.order = append(b.g.order, n)
		for _, e := range n.Edges {
			b.resolve(e.To)
		}
	}
	for _, p := range producers {
		p.Edges = append(p.Edges,
			Edge{From: p.Key, To: ExecutorImplKey, Request: decl.RequestInstance, Implicit: true},
			Edge{From: p.Key, To: MonitorKey, Request: decl.RequestInstance, Implicit: true},
		)
	}
}

// syntheticRank places compiler-made nodes after every declaration.
func (b *builder) syntheticRank(offset int) int {
	return b.injectableBase + len(b.model.Injectables()) + offset
}

func edgesFrom(from decl.Key, deps []decl.Dependency) []Edge {
	edges := make([]Edge, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, Edge{
			From:     from,
			To:       d.Key,
			Request:  d.Request,
			Nullable: d.Nullable,
			Name:     d.Name,
			Pos:      d.Pos,
		})
	}
	return edges
}

// SPDX-License-Identifier: MPL-2.0

// Package graph resolves the accessor requests of one component into a
// binding graph. Building never fails fast: unresolved keys become missing
// nodes and unusable module references are recorded on the graph so the
// validator can report all of them at once.
package graph

import (
	"github.com/invowk/wirekit/pkg/decl"
)

const (
	// KindProvision is a provides binding.
	KindProvision NodeKind = "provision"
	// KindProduction is a produces binding.
	KindProduction NodeKind = "production"
	// KindInjection is an injectable constructor.
	KindInjection NodeKind = "injection"
	// KindSet is a set assembled from multibinding contributions.
	KindSet NodeKind = "multibound_set"
	// KindMap is a map assembled from multibinding contributions.
	KindMap NodeKind = "multibound_map"
	// KindComponent is the component instance itself.
	KindComponent NodeKind = "component"
	// KindExecutor is the memoized production executor producers run on.
	KindExecutor NodeKind = "executor"
	// KindMonitor is the component monitor producers report to.
	KindMonitor NodeKind = "monitor"
	// KindMissing is a placeholder for a key nothing provides.
	KindMissing NodeKind = "missing"
)

var (
	// ExecutorImplKey is the synthetic key of the memoized production executor.
	ExecutorImplKey = decl.Qualified("wirekit.executor", decl.ExecutorType)
	// MonitorKey is the synthetic key of the component monitor.
	MonitorKey = decl.Qualified("wirekit.monitor", "producers.Monitor")
)

type (
	// NodeKind is how a node's value is obtained.
	NodeKind string

	// Edge is one dependency request from a node.
	Edge struct {
		From    decl.Key
		To      decl.Key
		Request decl.RequestKind
		// Nullable means the requester accepts nil.
		Nullable bool
		// Implicit marks edges added by the compiler rather than declared.
		Implicit bool
		// Name is the parameter or accessor name, used only for messages.
		Name string
		Pos  decl.Position
	}

	// Node is one key of the graph and the declaration that satisfies it.
	Node struct {
		Key        decl.Key
		Kind       NodeKind
		Binding    *decl.Binding
		Injectable *decl.Injectable
		// Contributions are the bindings merged into a set or map node.
		Contributions []decl.Binding
		// Edges are the node's dependencies in declaration order.
		Edges []Edge
		// Rank is the declaration rank used to break ordering ties.
		Rank int
	}

	// ModuleRef is a module reference that could not be used.
	ModuleRef struct {
		Name string
		// Via is the component or module that holds the reference.
		Via string
		// Declared is false when no module of that name exists.
		Declared bool
		Pos      decl.Position
	}

	// EntryPoint is an accessor and the key it requests.
	EntryPoint struct {
		Accessor decl.Accessor
		Key      decl.Key
	}

	// Graph is the resolved binding graph of one component.
	Graph struct {
		Component decl.Component
		Model     *decl.Model
		// Modules are the usable modules after include expansion, each once.
		Modules []decl.Module
		// Unresolved are module references that are unknown or not annotated.
		Unresolved  []ModuleRef
		EntryPoints []EntryPoint
		// ExecutorKey is the key producers run on.
		ExecutorKey decl.Key

		nodes map[decl.Key]*Node
		order []*Node
	}
)

// Node returns the node for a key, or nil.
func (g *Graph) Node(k decl.Key) *Node {
	return g.nodes[k]
}

// Nodes returns all nodes in the order they were resolved.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// ComponentKey is the key under which the component itself can be requested.
func (g *Graph) ComponentKey() decl.Key {
	return decl.NewKey(decl.TypeRef(g.Component.Name))
}

// HasProduction reports whether any producer is reachable.
func (g *Graph) HasProduction() bool {
	for _, n := range g.order {
		if n.Kind == KindProduction {
			return true
		}
	}
	return false
}

// Missing returns the placeholder nodes in resolution order.
func (g *Graph) Missing() []*Node {
	var out []*Node
	for _, n := range g.order {
		if n.Kind == KindMissing {
			out = append(out, n)
		}
	}
	return out
}

// Dependents returns every edge that points at k, in resolution order.
func (g *Graph) Dependents(k decl.Key) []Edge {
	var out []Edge
	for _, n := range g.order {
		for _, e := range n.Edges {
			if e.To == k {
				out = append(out, e)
			}
		}
	}
	return out
}

// PathTo returns the shortest request path from an entry point to k, the
// entry point's key first. It returns nil when k is unreachable.
func (g *Graph) PathTo(k decl.Key) []decl.Key {
	parent := make(map[decl.Key]decl.Key)
	seen := make(map[decl.Key]bool)
	var queue []decl.Key
	for _, ep := range g.EntryPoints {
		if !seen[ep.Key] {
			seen[ep.Key] = true
			queue = append(queue, ep.Key)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == k {
			path := []decl.Key{cur}
			for {
				p, ok := parent[cur]
				if !ok {
					break
				}
				path = append([]decl.Key{p}, path...)
				cur = p
			}
			return path
		}
		n := g.nodes[cur]
		if n == nil {
			continue
		}
		for _, e := range n.Edges {
			if !seen[e.To] {
				seen[e.To] = true
				parent[e.To] = cur
				queue = append(queue, e.To)
			}
		}
	}
	return nil
}

// Pos returns the declaration position of the node.
func (n *Node) Pos() decl.Position {
	switch {
	case n.Binding != nil:
		return n.Binding.Pos
	case n.Injectable != nil:
		return n.Injectable.Pos
	case len(n.Contributions) > 0:
		return n.Contributions[0].Pos
	default:
		return decl.Position{}
	}
}

// Scope returns the scope of the node's declaration.
func (n *Node) Scope() decl.Scope {
	switch {
	case n.Binding != nil:
		return n.Binding.Scope
	case n.Injectable != nil:
		return n.Injectable.Scope
	default:
		return decl.Unscoped
	}
}

// Nullable reports whether the node may yield nil.
func (n *Node) Nullable() bool {
	return n.Binding != nil && n.Binding.Nullable
}

// Synchronous reports whether the node's value is available without waiting.
func (n *Node) Synchronous() bool {
	return n.Kind != KindProduction
}

// Label names the declaration behind the node for messages.
func (n *Node) Label() string {
	switch {
	case n.Binding != nil:
		return n.Binding.ContributionKey()
	case n.Injectable != nil:
		return n.Injectable.Constructor
	default:
		return n.Key.String()
	}
}

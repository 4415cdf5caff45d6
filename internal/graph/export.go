// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"
	"strings"

	"github.com/invowk/wirekit/pkg/decl"

	"github.com/pelletier/go-toml/v2"
)

type (
	// Document is the serializable view of a graph.
	Document struct {
		Component   string          `toml:"component"`
		Production  bool            `toml:"production"`
		Modules     []string        `toml:"modules"`
		EntryPoints []EntryDocument `toml:"entry_points"`
		Nodes       []NodeDocument  `toml:"nodes"`
	}

	// EntryDocument is the serializable view of an entry point.
	EntryDocument struct {
		Accessor string `toml:"accessor"`
		Kind     string `toml:"kind"`
		Key      string `toml:"key"`
	}

	// NodeDocument is the serializable view of a node.
	NodeDocument struct {
		Key          string         `toml:"key"`
		Kind         string         `toml:"kind"`
		Declaration  string         `toml:"declaration,omitempty"`
		Scope        string         `toml:"scope,omitempty"`
		Position     string         `toml:"position,omitempty"`
		Dependencies []EdgeDocument `toml:"dependencies,omitempty"`
	}

	// EdgeDocument is the serializable view of an edge.
	EdgeDocument struct {
		Key      string `toml:"key"`
		Request  string `toml:"request"`
		Implicit bool   `toml:"implicit,omitempty"`
	}
)

// Document returns the serializable view of the graph in resolution order.
func (g *Graph) Document() Document {
	doc := Document{
		Component:  g.Component.Name,
		Production: g.Component.Production,
	}
	for _, m := range g.Modules {
		doc.Modules = append(doc.Modules, m.Name)
	}
	for _, ep := range g.EntryPoints {
		doc.EntryPoints = append(doc.EntryPoints, EntryDocument{
			Accessor: ep.Accessor.Name,
			Kind:     string(ep.Accessor.Kind),
			Key:      ep.Key.String(),
		})
	}
	for _, n := range g.order {
		nd := NodeDocument{
			Key:   n.Key.String(),
			Kind:  string(n.Kind),
			Scope: string(n.Scope()),
		}
		if n.Binding != nil || n.Injectable != nil {
			nd.Declaration = n.Label()
		}
		if p := n.Pos(); !p.IsZero() {
			nd.Position = p.String()
		}
		for _, e := range n.Edges {
			nd.Dependencies = append(nd.Dependencies, EdgeDocument{
				Key:      e.To.String(),
				Request:  string(e.Request),
				Implicit: e.Implicit,
			})
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

// TOML encodes the graph document.
func (g *Graph) TOML() ([]byte, error) {
	out, err := toml.Marshal(g.Document())
	if err != nil {
		return nil, fmt.Errorf("encode graph %s: %w", g.Component.Name, err)
	}
	return out, nil
}

// DOT renders the graph in Graphviz format. Edges point from a node to its
// dependency; deferred requests are dashed and compiler-made edges are gray.
func (g *Graph) DOT() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.Component.Name)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled];\n")

	names := make(map[string]string, len(g.order))
	for i, n := range g.order {
		id := fmt.Sprintf("n%d", i)
		names[n.Key.String()] = id
		fmt.Fprintf(&b, "  %s [label=%q, fillcolor=%q];\n", id, n.Key.String()+"\n"+string(n.Kind), fillColor(n.Kind))
	}
	for i, ep := range g.EntryPoints {
		fmt.Fprintf(&b, "  e%d [label=%q, shape=ellipse, fillcolor=\"white\"];\n", i, ep.Accessor.Name+"()")
		fmt.Fprintf(&b, "  e%d -> %s;\n", i, names[ep.Key.String()])
	}
	for _, n := range g.order {
		for _, e := range n.Edges {
			var attrs []string
			if e.Request.Deferred() {
				attrs = append(attrs, "style=dashed")
			}
			if e.Implicit {
				attrs = append(attrs, "color=gray")
			}
			if e.Request != decl.RequestInstance {
				attrs = append(attrs, fmt.Sprintf("label=%q", e.Request))
			}
			suffix := ""
			if len(attrs) > 0 {
				suffix = " [" + strings.Join(attrs, ", ") + "]"
			}
			fmt.Fprintf(&b, "  %s -> %s%s;\n", names[n.Key.String()], names[e.To.String()], suffix)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// Text renders the graph as an indented dependency listing.
func (g *Graph) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "component %s", g.Component.Name)
	if g.Component.Production {
		b.WriteString(" (production)")
	}
	b.WriteString("\n")
	for _, n := range g.order {
		fmt.Fprintf(&b, "  %s [%s]", n.Key, n.Kind)
		if n.Binding != nil || n.Injectable != nil {
			fmt.Fprintf(&b, " %s", n.Label())
		}
		b.WriteString("\n")
		for _, e := range n.Edges {
			marker := ""
			if e.Implicit {
				marker = " (implicit)"
			}
			fmt.Fprintf(&b, "    <- %s %s%s\n", e.Request, e.To, marker)
		}
	}
	return b.String()
}

func fillColor(k NodeKind) string {
	switch k {
	case KindProduction:
		return "lightblue"
	case KindMissing:
		return "lightcoral"
	case KindExecutor, KindMonitor, KindComponent:
		return "lightgray"
	case KindSet, KindMap:
		return "lightyellow"
	default:
		return "lightgreen"
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations for topological sorting
// and cycle detection. The graph compiler uses it to order binding
// initialization and to report dependency cycles with their path.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle is the path of the cycle, first node repeated at the end.
		Cycle []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. An edge from A to B means A must
	// be initialized before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors (nodes that depend on it).
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order.
		nodes []string
		// index is the insertion index of each node.
		index map[string]int
		// rank breaks ties between nodes that are ready at the same time.
		rank map[string]int
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		index:     make(map[string]int),
		rank:      make(map[string]int),
	}
}

// AddNode adds a node ranked by its insertion order. If the node already
// exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	g.AddRankedNode(name, len(g.nodes))
}

// AddRankedNode adds a node with an explicit rank. Among nodes whose
// dependencies are all satisfied, lower ranks come first. If the node
// already exists only its rank is updated.
func (g *Graph) AddRankedNode(name string, rank int) {
	if _, ok := g.index[name]; !ok {
		g.index[name] = len(g.nodes)
		g.nodes = append(g.nodes, name)
	}
	g.rank[name] = rank
}

// AddEdge adds a directed edge from -> to, meaning "from" must come before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.index[from]; !ok {
		g.AddNode(from)
	}
	if _, ok := g.index[to]; !ok {
		g.AddNode(to)
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: whenever several nodes are ready,
// the one with the lowest rank is emitted first, insertion order breaking
// rank ties.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	var ready []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			ready = append(ready, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		slices.SortFunc(ready, g.less)
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				ready = append(ready, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.FindCycle()}
	}

	return result, nil
}

// FindCycle returns the path of one cycle, or nil when the graph is acyclic.
// The search starts from nodes in insertion order and follows edges in the
// order they were added, so the same graph always yields the same path.
func (g *Graph) FindCycle() []string {
	return g.searchCycle(g.nodes, nil)
}

// FindCycles returns one cycle path for every strongly connected component
// that contains a cycle, so independent cycles are all reported. Components
// are ordered by their earliest inserted node.
func (g *Graph) FindCycles() [][]string {
	var cycles [][]string
	for _, comp := range g.components() {
		if len(comp) == 1 && !slices.Contains(g.adjacency[comp[0]], comp[0]) {
			continue
		}
		member := make(map[string]bool, len(comp))
		for _, n := range comp {
			member[n] = true
		}
		if cycle := g.searchCycle(comp[:1], member); cycle != nil {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

// searchCycle runs a depth-first search from roots and returns the first
// cycle found. When allowed is non-nil, edges leaving it are not followed.
func (g *Graph) searchCycle(roots []string, allowed map[string]bool) []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		state[node] = onStack
		stack = append(stack, node)
		for _, next := range g.adjacency[node] {
			if allowed != nil && !allowed[next] {
				continue
			}
			switch state[next] {
			case onStack:
				start := slices.Index(stack, next)
				cycle := slices.Clone(stack[start:])
				return append(cycle, next)
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, node := range roots {
		if state[node] == unvisited {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// components returns the strongly connected components (Tarjan), each
// sorted by insertion order.
func (g *Graph) components() [][]string {
	order := make(map[string]int, len(g.nodes))
	low := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	var out [][]string

	var connect func(v string)
	connect = func(v string) {
		order[v] = len(order)
		low[v] = order[v]
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range g.adjacency[v] {
			if _, seen := order[w]; !seen {
				connect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], order[w])
			}
		}
		if low[v] != order[v] {
			return
		}
		var comp []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		slices.SortFunc(comp, func(a, b string) int { return g.index[a] - g.index[b] })
		out = append(out, comp)
	}

	for _, v := range g.nodes {
		if _, seen := order[v]; !seen {
			connect(v)
		}
	}
	slices.SortFunc(out, func(a, b []string) int { return g.index[a[0]] - g.index[b[0]] })
	return out
}

func (g *Graph) less(a, b string) int {
	if ra, rb := g.rank[a], g.rank[b]; ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return g.index[a] - g.index[b]
}

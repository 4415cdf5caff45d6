// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/pkg/decl"
)

const (
	// StrategyFresh calls the binding on every request.
	StrategyFresh Strategy = "fresh"
	// StrategyMemoized calls the binding once, under double-checked locking.
	StrategyMemoized Strategy = "memoized"
	// StrategyDeferred schedules the binding on the executor once its
	// dependencies have resolved.
	StrategyDeferred Strategy = "deferred"
	// StrategyInstance hands out an existing value.
	StrategyInstance Strategy = "instance"
	// StrategyAggregate assembles a multibinding from its contributions.
	StrategyAggregate Strategy = "aggregate"
)

// Strategy is how generated code obtains the value of a node.
type Strategy string

// StrategyOf returns the access strategy for n.
func StrategyOf(n *graph.Node) Strategy {
	switch n.Kind {
	case graph.KindProduction:
		return StrategyDeferred
	case graph.KindComponent:
		return StrategyInstance
	case graph.KindExecutor, graph.KindMonitor:
		return StrategyMemoized
	case graph.KindSet, graph.KindMap:
		return StrategyAggregate
	case graph.KindProvision, graph.KindInjection, graph.KindMissing:
		if n.Scope() != decl.Unscoped {
			return StrategyMemoized
		}
		return StrategyFresh
	}
	return StrategyFresh
}

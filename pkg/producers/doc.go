// SPDX-License-Identifier: MPL-2.0

// Package producers is the runtime support library for production components
// generated by wirekit.
//
// A Producer yields a Future. Generated producers are built with NewProducer:
// they request every dependency, wait for all of them through completion
// callbacks (never by blocking), then run the binding body on the component's
// Executor under the component's Monitor. A strict dependency that fails fails
// the dependent future without running its body; Lenient dependencies are
// delivered as Produced values instead.
package producers

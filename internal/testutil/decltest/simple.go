// SPDX-License-Identifier: MPL-2.0

package decltest

import "github.com/invowk/wirekit/pkg/decl"

// SimpleProduction returns the parts of the canonical production component:
// C is injectable, B(C) is provided, A(B) is produced and the executor is
// provided by ExecutorModule.
func SimpleProduction(opts ...ComponentOption) []Part {
	base := []ComponentOption{
		Production(),
		WithModules("ExecutorModule", "AModule", "BModule"),
		WithAccessorOf("A", "A", decl.AccessorFuture),
	}
	return []Part{
		Component("SimpleComponent", append(base, opts...)...),
		Module("ExecutorModule", decl.ModuleProvider, ExecutorBinding()),
		Module("AModule", decl.ModuleProducer, Produces("A", "A", Dep("B"))),
		Module("BModule", decl.ModuleProvider, Provides("B", "B", Dep("*C"))),
		Injectable("*C", "NewC"),
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package inject is the runtime support library for code generated by wirekit
// for provision components.
//
// Generated components hold one Provider per binding. Unscoped bindings are
// plain ProviderFunc closures, scoped and memoized bindings are wrapped in
// DoubleCheck, and multibindings are assembled with SetBuilder and MapBuilder.
// The package has no wirekit dependencies so generated code only needs this
// package (and producers, for production components) at run time.
package inject

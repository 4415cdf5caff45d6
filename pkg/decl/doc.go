// SPDX-License-Identifier: MPL-2.0

// Package decl defines the declaration model consumed by the wirekit graph compiler.
//
// A Model is the immutable union of one or more declaration Files. Each File holds
// the components, modules and injectable constructors that a front-end (CUE or HCL
// in package declfile) recognized in one source file. The model answers structural
// queries only; resolution and validation happen in the graph and validate packages.
//
// This package is a leaf dependency: it never imports other wirekit packages.
package decl

// SPDX-License-Identifier: MPL-2.0

// Package decltest builds declaration models for tests.
//
// Usage:
//
//	m := decltest.Model(t,
//	    decltest.Component("App", decltest.WithModules("AppModule"), decltest.WithAccessor("Greeter", "*Greeter")),
//	    decltest.Module("AppModule", decl.ModuleProvider, decltest.Provides("Greeter", "*Greeter")),
//	)
package decltest

import (
	"testing"

	"github.com/invowk/wirekit/pkg/decl"
)

type (
	// ComponentOption configures a test component.
	ComponentOption func(*decl.Component)

	// BindingOption configures a test binding.
	BindingOption func(*decl.Binding)

	// Part is anything that can be added to a test file.
	Part interface {
		apply(f *decl.File)
	}

	componentPart  decl.Component
	modulePart     decl.Module
	injectablePart decl.Injectable
)

func (p componentPart) apply(f *decl.File)  { f.Components = append(f.Components, decl.Component(p)) }
func (p modulePart) apply(f *decl.File)     { f.Modules = append(f.Modules, decl.Module(p)) }
func (p injectablePart) apply(f *decl.File) { f.Injectables = append(f.Injectables, decl.Injectable(p)) }

// File assembles parts into a declaration file of package "fixture".
func File(parts ...Part) decl.File {
	f := decl.File{Path: "fixture.cue", Package: "fixture", Digest: "fixture"}
	for _, p := range parts {
		p.apply(&f)
	}
	return f
}

// Model assembles parts into a model, failing the test on error.
func Model(t testing.TB, parts ...Part) *decl.Model {
	t.Helper()
	m, err := decl.NewModel(File(parts...))
	if err != nil {
		t.Fatalf("decltest.Model: %v", err)
	}
	return m
}

// Component creates an interface component with the given name and options.
func Component(name string, opts ...ComponentOption) Part {
	c := decl.Component{Name: name, Kind: decl.ComponentInterface, Pos: At(1)}
	for _, opt := range opts {
		opt(&c)
	}
	return componentPart(c)
}

// Module creates a module of the given kind holding bindings.
func Module(name string, kind decl.ModuleKind, bindings ...decl.Binding) Part {
	return modulePart(ModuleDecl(name, kind, bindings...))
}

// ModuleDecl creates a module declaration without wrapping it as a Part.
func ModuleDecl(name string, kind decl.ModuleKind, bindings ...decl.Binding) decl.Module {
	return decl.Module{Name: name, Kind: kind, Bindings: bindings, Pos: At(100)}
}

// Declared wraps a hand-built module declaration as a Part.
func Declared(m decl.Module) Part {
	return modulePart(m)
}

// RequiredModule creates a module that cannot be defaulted.
func RequiredModule(name string, kind decl.ModuleKind, bindings ...decl.Binding) Part {
	m := ModuleDecl(name, kind, bindings...)
	m.Required = true
	return modulePart(m)
}

// IncludingModule creates a module that includes other modules.
func IncludingModule(name string, kind decl.ModuleKind, includes []string, bindings ...decl.Binding) Part {
	m := ModuleDecl(name, kind, bindings...)
	m.Includes = includes
	return modulePart(m)
}

// Injectable creates an injectable constructor for typ.
func Injectable(typ, constructor string, params ...decl.Dependency) Part {
	return injectablePart(decl.Injectable{
		Type:        decl.TypeRef(typ),
		Constructor: constructor,
		Params:      params,
		Pos:         At(200),
	})
}

// ScopedInjectable creates a scoped injectable constructor for typ.
func ScopedInjectable(typ, constructor string, scope decl.Scope, params ...decl.Dependency) Part {
	inj := decl.Injectable{Type: decl.TypeRef(typ), Constructor: constructor, Params: params, Scope: scope, Pos: At(200)}
	return injectablePart(inj)
}

// --- Component Options ---

// Production marks the component as a production component.
func Production() ComponentOption {
	return func(c *decl.Component) { c.Production = true }
}

// WithKind sets the component kind.
func WithKind(k decl.ComponentKind) ComponentOption {
	return func(c *decl.Component) { c.Kind = k }
}

// WithModules appends module references.
func WithModules(names ...string) ComponentOption {
	return func(c *decl.Component) { c.Modules = append(c.Modules, names...) }
}

// WithScopes appends declared scopes.
func WithScopes(scopes ...decl.Scope) ComponentOption {
	return func(c *decl.Component) { c.Scopes = append(c.Scopes, scopes...) }
}

// WithAccessor appends an instance accessor.
func WithAccessor(name, typ string) ComponentOption {
	return WithAccessorOf(name, typ, decl.AccessorInstance)
}

// WithAccessorOf appends an accessor of the given kind.
func WithAccessorOf(name, typ string, kind decl.AccessorKind) ComponentOption {
	return func(c *decl.Component) {
		c.Accessors = append(c.Accessors, decl.Accessor{
			Name: name,
			Key:  decl.NewKey(decl.TypeRef(typ)),
			Kind: kind,
			Pos:  At(10 + len(c.Accessors)),
		})
	}
}

// WithBuilder declares a builder contract exposing setters for modules.
func WithBuilder(name string, setters ...string) ComponentOption {
	return func(c *decl.Component) {
		c.Builder = &decl.BuilderDecl{Name: name, Setters: setters, Pos: At(50)}
	}
}

// --- Bindings ---

// Provides creates a provides binding.
func Provides(method, typ string, params ...decl.Dependency) decl.Binding {
	return decl.Binding{
		Method:   method,
		Kind:     decl.BindingProvides,
		Provides: decl.NewKey(decl.TypeRef(typ)),
		Params:   params,
		Pos:      At(300),
	}
}

// Produces creates a produces binding.
func Produces(method, typ string, params ...decl.Dependency) decl.Binding {
	b := Provides(method, typ, params...)
	b.Kind = decl.BindingProduces
	return b
}

// With applies binding options to a binding.
func With(b decl.Binding, opts ...BindingOption) decl.Binding {
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Nullable marks the binding as possibly returning nil.
func Nullable() BindingOption {
	return func(b *decl.Binding) { b.Nullable = true }
}

// Scoped sets the binding scope.
func Scoped(s decl.Scope) BindingOption {
	return func(b *decl.Binding) { b.Scope = s }
}

// QualifiedBy qualifies the provided key.
func QualifiedBy(q string) BindingOption {
	return func(b *decl.Binding) { b.Provides.Qualifier = q }
}

// IntoSet makes the binding a set contribution.
func IntoSet() BindingOption {
	return func(b *decl.Binding) { b.Multibinding = decl.MultibindingSet }
}

// ElementsIntoSet makes the binding a collection contribution.
func ElementsIntoSet() BindingOption {
	return func(b *decl.Binding) { b.Multibinding = decl.MultibindingSetValues }
}

// IntoMap makes the binding a map contribution under a key literal.
func IntoMap(keyType, literal string) BindingOption {
	return func(b *decl.Binding) {
		b.Multibinding = decl.MultibindingMap
		b.MapKey = &decl.MapKey{Type: decl.TypeRef(keyType), Literal: literal}
	}
}

// ReturnsError marks a producer as returning (T, error).
func ReturnsError() BindingOption {
	return func(b *decl.Binding) { b.ReturnsError = true }
}

// AtLine sets the binding position line.
func AtLine(line int) BindingOption {
	return func(b *decl.Binding) { b.Pos = At(line) }
}

// --- Dependencies ---

// Dep requests an instance of typ.
func Dep(typ string) decl.Dependency {
	return decl.Dependency{Key: decl.NewKey(decl.TypeRef(typ)), Request: decl.RequestInstance}
}

// DepOf requests typ with the given request kind.
func DepOf(kind decl.RequestKind, typ string) decl.Dependency {
	d := Dep(typ)
	d.Request = kind
	return d
}

// QualifiedDep requests an instance of typ qualified by q.
func QualifiedDep(q, typ string) decl.Dependency {
	d := Dep(typ)
	d.Key.Qualifier = q
	return d
}

// NullableDep requests typ accepting nil.
func NullableDep(typ string) decl.Dependency {
	d := Dep(typ)
	d.Nullable = true
	return d
}

// ExecutorDep requests the production executor.
func ExecutorDep() decl.Dependency {
	return decl.Dependency{Key: decl.ProductionExecutorKey(), Request: decl.RequestInstance}
}

// ExecutorBinding provides the production executor.
func ExecutorBinding() decl.Binding {
	return With(Provides("Executor", string(decl.ExecutorType)), QualifiedBy(decl.ProductionQualifier))
}

// At returns a fixture position on the given line.
func At(line int) decl.Position {
	return decl.Position{File: "fixture.cue", Line: line, Column: 1}
}

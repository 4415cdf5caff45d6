// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

var (
	// ErrPackageMismatch is returned when files of one unit declare different packages.
	ErrPackageMismatch = errors.New("declaration files disagree on package")
	// ErrDuplicateDeclaration is returned when a name is declared twice in one unit.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrInvalidDeclaration is returned when a declaration is malformed.
	ErrInvalidDeclaration = errors.New("invalid declaration")
)

// Model is the immutable declaration model of one compilation unit.
// All accessors return copies, so callers cannot mutate the model.
type Model struct {
	pkg         string
	imports     []Import
	files       []File
	components  []Component
	modules     []Module
	injectables []Injectable

	componentIdx  map[string]int
	moduleIdx     map[string]int
	injectableIdx map[TypeRef]int
}

// NewModel merges files into a model. Declarations keep the order of files and
// the order within each file. Empty request and accessor kinds default to
// instance, and an empty module type defaults to a pointer to the module name.
func NewModel(files ...File) (*Model, error) {
	m := &Model{
		componentIdx:  make(map[string]int),
		moduleIdx:     make(map[string]int),
		injectableIdx: make(map[TypeRef]int),
	}
	seenImports := make(map[string]bool)
	var errs []error

	for _, f := range files {
		if f.Package != "" {
			if m.pkg == "" {
				m.pkg = f.Package
			} else if m.pkg != f.Package {
				errs = append(errs, fmt.Errorf("%w: %s declares %q, expected %q", ErrPackageMismatch, f.Path, f.Package, m.pkg))
			}
		}
		for _, imp := range f.Imports {
			if !seenImports[imp.Path] {
				seenImports[imp.Path] = true
				m.imports = append(m.imports, imp)
			}
		}

		for _, c := range f.Components {
			c = normalizeComponent(c)
			if _, dup := m.componentIdx[c.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: component %s at %s", ErrDuplicateDeclaration, c.Name, c.Pos))
				continue
			}
			errs = append(errs, checkComponent(c)...)
			m.componentIdx[c.Name] = len(m.components)
			m.components = append(m.components, c)
		}
		for _, mod := range f.Modules {
			mod = normalizeModule(mod)
			if _, dup := m.moduleIdx[mod.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: module %s at %s", ErrDuplicateDeclaration, mod.Name, mod.Pos))
				continue
			}
			errs = append(errs, checkModule(mod)...)
			m.moduleIdx[mod.Name] = len(m.modules)
			m.modules = append(m.modules, mod)
		}
		for _, inj := range f.Injectables {
			inj.Params = normalizeDeps(inj.Params)
			if _, dup := m.injectableIdx[inj.Type]; dup {
				errs = append(errs, fmt.Errorf("%w: injectable %s at %s", ErrDuplicateDeclaration, inj.Type, inj.Pos))
				continue
			}
			errs = append(errs, checkInjectable(inj)...)
			m.injectableIdx[inj.Type] = len(m.injectables)
			m.injectables = append(m.injectables, inj)
		}
		m.files = append(m.files, f)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// Package returns the Go package name generated code belongs to.
func (m *Model) Package() string { return m.pkg }

// Imports returns the imports available to type expressions.
func (m *Model) Imports() []Import { return slices.Clone(m.imports) }

// Sources returns the paths of the files the model was built from.
func (m *Model) Sources() []string {
	out := make([]string, 0, len(m.files))
	for _, f := range m.files {
		if f.Path != "" {
			out = append(out, f.Path)
		}
	}
	return out
}

// Digest combines the digests of all source files into one stable hash.
func (m *Model) Digest() string {
	parts := make([]string, 0, len(m.files))
	for _, f := range m.files {
		parts = append(parts, f.Path+"\x00"+f.Digest)
	}
	sort.Strings(parts)
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Components returns all components in declaration order.
func (m *Model) Components() []Component { return cloneAll(m.components, Component.Clone) }

// Component returns the component with the given name.
func (m *Model) Component(name string) (Component, bool) {
	i, ok := m.componentIdx[name]
	if !ok {
		return Component{}, false
	}
	return m.components[i].Clone(), true
}

// Modules returns all modules in declaration order.
func (m *Model) Modules() []Module { return cloneAll(m.modules, Module.Clone) }

// Module returns the module with the given name.
func (m *Model) Module(name string) (Module, bool) {
	i, ok := m.moduleIdx[name]
	if !ok {
		return Module{}, false
	}
	return m.modules[i].Clone(), true
}

// BindingsOf returns the bindings of a module in declaration order.
func (m *Model) BindingsOf(module string) []Binding {
	mod, ok := m.Module(module)
	if !ok {
		return nil
	}
	return mod.Bindings
}

// AccessorsOf returns the accessors of a component in declaration order.
func (m *Model) AccessorsOf(component string) []Accessor {
	c, ok := m.Component(component)
	if !ok {
		return nil
	}
	return c.Accessors
}

// Injectables returns all injectable constructors in declaration order.
func (m *Model) Injectables() []Injectable { return cloneAll(m.injectables, Injectable.Clone) }

// Injectable returns the injectable constructor for a type.
func (m *Model) Injectable(t TypeRef) (Injectable, bool) {
	i, ok := m.injectableIdx[t]
	if !ok {
		return Injectable{}, false
	}
	return m.injectables[i].Clone(), true
}

// InjectableRank returns the declaration index of an injectable, or -1.
func (m *Model) InjectableRank(t TypeRef) int {
	if i, ok := m.injectableIdx[t]; ok {
		return i
	}
	return -1
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func normalizeComponent(c Component) Component {
	c = c.Clone()
	for i := range c.Accessors {
		if c.Accessors[i].Kind == "" {
			c.Accessors[i].Kind = AccessorInstance
		}
	}
	return c
}

func normalizeModule(mod Module) Module {
	if mod.Type == "" {
		mod.Type = TypeRef("*" + mod.Name)
	}
	mod.Includes = slices.Clone(mod.Includes)
	mod.Bindings = slices.Clone(mod.Bindings)
	for i := range mod.Bindings {
		b := &mod.Bindings[i]
		b.Module = mod.Name
		if b.Kind == "" {
			b.Kind = BindingProvides
		}
		if b.MapKey != nil {
			mk := *b.MapKey
			b.MapKey = &mk
		}
		b.Params = normalizeDeps(b.Params)
	}
	return mod
}

func normalizeDeps(deps []Dependency) []Dependency {
	deps = slices.Clone(deps)
	for i := range deps {
		if deps[i].Request == "" {
			deps[i].Request = RequestInstance
		}
	}
	return deps
}

func checkComponent(c Component) []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("%w: component at %s has no name", ErrInvalidDeclaration, c.Pos))
	}
	if ok, kindErrs := c.Kind.IsValid(); !ok {
		errs = append(errs, wrapAll(c.Name, kindErrs)...)
	}
	for _, s := range c.Scopes {
		if ok, scopeErrs := s.IsValid(); !ok {
			errs = append(errs, wrapAll(c.Name, scopeErrs)...)
		}
	}
	for _, a := range c.Accessors {
		if ok, kindErrs := a.Kind.IsValid(); !ok {
			errs = append(errs, wrapAll(c.Name+"."+a.Name, kindErrs)...)
		}
	}
	return errs
}

func checkModule(mod Module) []error {
	var errs []error
	if ok, kindErrs := mod.Kind.IsValid(); !ok {
		errs = append(errs, wrapAll(mod.Name, kindErrs)...)
	}
	if mod.NeedsInstance() && !mod.Type.IsPointer() {
		errs = append(errs, fmt.Errorf("%w: module %s: type %s must be a pointer type", ErrInvalidDeclaration, mod.Name, mod.Type))
	}
	for _, b := range mod.Bindings {
		where := b.ContributionKey()
		if b.Method == "" || b.Provides.IsZero() {
			errs = append(errs, fmt.Errorf("%w: binding in module %s at %s needs a method and a type", ErrInvalidDeclaration, mod.Name, b.Pos))
		}
		if ok, kindErrs := b.Kind.IsValid(); !ok {
			errs = append(errs, wrapAll(where, kindErrs)...)
		}
		if ok, multiErrs := b.Multibinding.IsValid(); !ok {
			errs = append(errs, wrapAll(where, multiErrs)...)
		}
		if ok, scopeErrs := b.Scope.IsValid(); !ok {
			errs = append(errs, wrapAll(where, scopeErrs)...)
		}
		if b.Kind == BindingProvides && (b.ReturnsError || b.ReturnsFuture) {
			errs = append(errs, fmt.Errorf("%w: %s: provides methods cannot return an error or a future", ErrInvalidDeclaration, where))
		}
		errs = append(errs, checkDeps(where, b.Params)...)
	}
	return errs
}

func checkInjectable(inj Injectable) []error {
	var errs []error
	if inj.Type == "" || inj.Constructor == "" {
		errs = append(errs, fmt.Errorf("%w: injectable at %s needs a type and a constructor", ErrInvalidDeclaration, inj.Pos))
	}
	if ok, scopeErrs := inj.Scope.IsValid(); !ok {
		errs = append(errs, wrapAll(string(inj.Type), scopeErrs)...)
	}
	return append(errs, checkDeps(string(inj.Type), inj.Params)...)
}

func checkDeps(where string, deps []Dependency) []error {
	var errs []error
	for _, d := range deps {
		if ok, kindErrs := d.Request.IsValid(); !ok {
			errs = append(errs, wrapAll(where, kindErrs)...)
		}
	}
	return errs
}

func wrapAll(where string, errs []error) []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = fmt.Errorf("%s: %w", where, err)
	}
	return out
}

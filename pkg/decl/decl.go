// SPDX-License-Identifier: MPL-2.0

package decl

import "golang.org/x/exp/slices"

const (
	// ProductionQualifier qualifies the executor that runs producers.
	ProductionQualifier = "production"
	// ExecutorType is the type of the production executor binding.
	ExecutorType TypeRef = "producers.Executor"
	// MonitorFactoryType is the element type of the optional monitor factory set.
	MonitorFactoryType TypeRef = "producers.MonitorFactory"
)

type (
	// Import is a Go import made available to type expressions in declarations.
	Import struct {
		Path string
		// Alias is the package qualifier; when empty the last path element is used.
		Alias string
	}

	// Dependency is one requested input of a binding, injectable or constructor.
	Dependency struct {
		// Name is the parameter name, used only for messages.
		Name    string
		Key     Key
		Request RequestKind
		// Nullable means the requester accepts a nil value.
		Nullable bool
		Pos      Position
	}

	// MapKey is the key under which a map multibinding contributes its value.
	MapKey struct {
		Type TypeRef
		// Literal is a Go expression of Type, for example `"a"` or `42`.
		Literal string
	}

	// Binding is one provides or produces method of a module.
	Binding struct {
		Module string
		Method string
		Kind   BindingKind
		// Provides is the key of the value the method returns.
		Provides     Key
		Params       []Dependency
		Scope        Scope
		Nullable     bool
		Multibinding MultibindingKind
		MapKey       *MapKey
		// ReturnsError means the method returns (T, error). Produces only.
		ReturnsError bool
		// ReturnsFuture means the method returns *producers.Future[T]. Produces only.
		ReturnsFuture bool
		Pos           Position
	}

	// Module groups bindings. Modules may include other modules.
	Module struct {
		Name string
		Kind ModuleKind
		// Type is the pointer type of the module value, "*" + Name by default.
		Type TypeRef
		// Constructor is a zero-argument function returning Type. When empty the
		// zero value is used.
		Constructor string
		// Required means the module cannot be defaulted and must be supplied
		// through the component builder.
		Required bool
		// Static means every binding is a package-level function; no instance is held.
		Static   bool
		Includes []string
		Bindings []Binding
		Pos      Position
	}

	// Injectable is a type with a constructor the compiler may call without a module.
	Injectable struct {
		Type        TypeRef
		Constructor string
		Params      []Dependency
		Scope       Scope
		Pos         Position
	}

	// Accessor is a method of the component interface.
	Accessor struct {
		Name     string
		Key      Key
		Kind     AccessorKind
		Nullable bool
		Pos      Position
	}

	// BuilderDecl is a user-declared builder contract for a component.
	BuilderDecl struct {
		Name string
		// Setters lists the modules the builder exposes setters for.
		Setters []string
		Pos     Position
	}

	// Component is the root of an object graph.
	Component struct {
		Name       string
		Kind       ComponentKind
		Production bool
		// Modules are module names in declaration order.
		Modules   []string
		Scopes    []Scope
		Accessors []Accessor
		Builder   *BuilderDecl
		Pos       Position
	}

	// File is everything a front-end recognized in one declaration source.
	File struct {
		Path        string
		Package     string
		Imports     []Import
		Components  []Component
		Modules     []Module
		Injectables []Injectable
		// Digest is an opaque content hash of the source, embedded in generated headers.
		Digest string
	}
)

// Clone returns a copy that shares no slices or pointers with b.
func (b Binding) Clone() Binding {
	b.Params = slices.Clone(b.Params)
	if b.MapKey != nil {
		mk := *b.MapKey
		b.MapKey = &mk
	}
	return b
}

// Clone returns a deep copy of the module.
func (m Module) Clone() Module {
	m.Includes = slices.Clone(m.Includes)
	m.Bindings = cloneAll(m.Bindings, Binding.Clone)
	return m
}

// Clone returns a deep copy of the injectable.
func (i Injectable) Clone() Injectable {
	i.Params = slices.Clone(i.Params)
	return i
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	c.Modules = slices.Clone(c.Modules)
	c.Scopes = slices.Clone(c.Scopes)
	c.Accessors = slices.Clone(c.Accessors)
	if c.Builder != nil {
		b := *c.Builder
		b.Setters = slices.Clone(b.Setters)
		c.Builder = &b
	}
	return c
}

// ProductionExecutorKey is the key of the user-supplied executor for producers.
func ProductionExecutorKey() Key {
	return Qualified(ProductionQualifier, ExecutorType)
}

// MonitorFactoriesKey is the key of the optional monitor factory set.
func MonitorFactoriesKey() Key {
	return NewKey(SliceOf(MonitorFactoryType))
}

// ContributionKey identifies the declaration that contributed a binding.
func (b Binding) ContributionKey() string {
	return b.Module + "." + b.Method
}

// BoundKey is the key the binding satisfies. Multibindings contribute to an
// aggregate key: a slice for sets, a map for map contributions.
func (b Binding) BoundKey() Key {
	switch b.Multibinding {
	case MultibindingSet:
		return Qualified(b.Provides.Qualifier, SliceOf(b.Provides.Type))
	case MultibindingMap:
		if b.MapKey == nil {
			return Qualified(b.Provides.Qualifier, MapOf("?", b.Provides.Type))
		}
		return Qualified(b.Provides.Qualifier, MapOf(b.MapKey.Type, b.Provides.Type))
	default:
		return b.Provides
	}
}

// IsProducer reports whether the binding is asynchronous.
func (b Binding) IsProducer() bool {
	return b.Kind == BindingProduces
}

// Key is the unqualified key the injectable satisfies.
func (i Injectable) Key() Key {
	return NewKey(i.Type)
}

// Defaultable reports whether the module can be created without the builder.
func (m Module) Defaultable() bool {
	return !m.Required
}

// NeedsInstance reports whether generated code holds a module value.
func (m Module) NeedsInstance() bool {
	return !m.Static
}

// HasProducers reports whether any binding of the module is a producer.
func (m Module) HasProducers() bool {
	return slices.ContainsFunc(m.Bindings, Binding.IsProducer)
}

// Qualifier is the identifier used for the import in type expressions.
func (i Import) Qualifier() string {
	if i.Alias != "" {
		return i.Alias
	}
	path := i.Path
	for j := len(path) - 1; j >= 0; j-- {
		if path[j] == '/' {
			return path[j+1:]
		}
	}
	return path
}

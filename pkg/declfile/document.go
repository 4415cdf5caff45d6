// SPDX-License-Identifier: MPL-2.0

package declfile

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/invowk/wirekit/pkg/decl"
)

// The document types carry both json tags, used by the CUE decoder, and hcl
// tags, used by gohcl. Names that are fields in CUE are block labels in HCL.
type (
	document struct {
		Package     string       `json:"go_package" hcl:"go_package"`
		Imports     []importDoc  `json:"imports,omitempty" hcl:"import,block"`
		Components  []component  `json:"components,omitempty" hcl:"component,block"`
		Modules     []moduleDoc  `json:"modules,omitempty" hcl:"module,block"`
		Injectables []injectable `json:"injectables,omitempty" hcl:"injectable,block"`
	}

	importDoc struct {
		Path  string `json:"path" hcl:"path,label"`
		Alias string `json:"alias,omitempty" hcl:"alias,optional"`
	}

	dependency struct {
		Name      string `json:"name,omitempty" hcl:"name,label"`
		Type      string `json:"type" hcl:"type"`
		Qualifier string `json:"qualifier,omitempty" hcl:"qualifier,optional"`
		Request   string `json:"request,omitempty" hcl:"request,optional"`
		Nullable  bool   `json:"nullable,omitempty" hcl:"nullable,optional"`
	}

	accessor struct {
		Name      string `json:"name" hcl:"name,label"`
		Type      string `json:"type" hcl:"type"`
		Qualifier string `json:"qualifier,omitempty" hcl:"qualifier,optional"`
		Kind      string `json:"kind,omitempty" hcl:"kind,optional"`
		Nullable  bool   `json:"nullable,omitempty" hcl:"nullable,optional"`
	}

	builder struct {
		Name    string   `json:"name" hcl:"name,label"`
		Setters []string `json:"setters,omitempty" hcl:"setters,optional"`
	}

	component struct {
		Name       string     `json:"name" hcl:"name,label"`
		Kind       string     `json:"kind,omitempty" hcl:"kind,optional"`
		Production bool       `json:"production,omitempty" hcl:"production,optional"`
		Modules    []string   `json:"modules,omitempty" hcl:"modules,optional"`
		Scopes     []string   `json:"scopes,omitempty" hcl:"scopes,optional"`
		Accessors  []accessor `json:"accessors,omitempty" hcl:"accessor,block"`
		Builder    *builder   `json:"builder,omitempty" hcl:"builder,block"`
	}

	mapKey struct {
		Type    string `json:"type,omitempty" hcl:"type,optional"`
		Literal string `json:"literal,omitempty" hcl:"literal,optional"`
		// Value is the HCL form: a string, number or bool rendered as a Go literal.
		Value cty.Value `json:"-" hcl:"value,optional"`
	}

	binding struct {
		Method        string       `json:"method" hcl:"method,label"`
		Kind          string       `json:"kind,omitempty" hcl:"kind,optional"`
		Type          string       `json:"type" hcl:"type"`
		Qualifier     string       `json:"qualifier,omitempty" hcl:"qualifier,optional"`
		Params        []dependency `json:"params,omitempty" hcl:"param,block"`
		Scope         string       `json:"scope,omitempty" hcl:"scope,optional"`
		Nullable      bool         `json:"nullable,omitempty" hcl:"nullable,optional"`
		Multibinding  string       `json:"multibinding,omitempty" hcl:"multibinding,optional"`
		MapKey        *mapKey      `json:"map_key,omitempty" hcl:"map_key,block"`
		ReturnsError  bool         `json:"returns_error,omitempty" hcl:"returns_error,optional"`
		ReturnsFuture bool         `json:"returns_future,omitempty" hcl:"returns_future,optional"`
	}

	moduleDoc struct {
		Name        string    `json:"name" hcl:"name,label"`
		Kind        string    `json:"kind,omitempty" hcl:"kind,optional"`
		Type        string    `json:"type,omitempty" hcl:"type,optional"`
		Constructor string    `json:"constructor,omitempty" hcl:"constructor,optional"`
		Required    bool      `json:"required,omitempty" hcl:"required,optional"`
		Static      bool      `json:"static,omitempty" hcl:"static,optional"`
		Includes    []string  `json:"includes,omitempty" hcl:"includes,optional"`
		Bindings    []binding `json:"bindings,omitempty" hcl:"binding,block"`
	}

	injectable struct {
		Type        string       `json:"type" hcl:"type,label"`
		Constructor string       `json:"constructor" hcl:"constructor"`
		Params      []dependency `json:"params,omitempty" hcl:"param,block"`
		Scope       string       `json:"scope,omitempty" hcl:"scope,optional"`
	}

	// locator maps a document path such as "modules[1].bindings[0]" to a
	// position in the source file.
	locator func(path string) decl.Position
)

func (d *document) file(path, digest string, at locator) decl.File {
	f := decl.File{
		Path:    path,
		Package: d.Package,
		Digest:  digest,
	}
	for _, imp := range d.Imports {
		f.Imports = append(f.Imports, decl.Import{Path: imp.Path, Alias: imp.Alias})
	}
	for i, c := range d.Components {
		f.Components = append(f.Components, c.decl(indexed("components", i), at))
	}
	for i, m := range d.Modules {
		f.Modules = append(f.Modules, m.decl(indexed("modules", i), at))
	}
	for i, inj := range d.Injectables {
		p := indexed("injectables", i)
		f.Injectables = append(f.Injectables, decl.Injectable{
			Type:        decl.TypeRef(inj.Type),
			Constructor: inj.Constructor,
			Params:      dependencies(inj.Params, p, at),
			Scope:       decl.Scope(inj.Scope),
			Pos:         at(p),
		})
	}
	return f
}

func (c *component) decl(p string, at locator) decl.Component {
	out := decl.Component{
		Name:       c.Name,
		Kind:       decl.ComponentKind(c.Kind),
		Production: c.Production,
		Modules:    c.Modules,
		Pos:        at(p),
	}
	if out.Kind == "" {
		out.Kind = decl.ComponentInterface
	}
	for _, s := range c.Scopes {
		out.Scopes = append(out.Scopes, decl.Scope(s))
	}
	for i, a := range c.Accessors {
		out.Accessors = append(out.Accessors, decl.Accessor{
			Name:     a.Name,
			Key:      decl.Qualified(a.Qualifier, decl.TypeRef(a.Type)),
			Kind:     decl.AccessorKind(a.Kind),
			Nullable: a.Nullable,
			Pos:      at(p + indexed(".accessors", i)),
		})
	}
	if c.Builder != nil {
		out.Builder = &decl.BuilderDecl{
			Name:    c.Builder.Name,
			Setters: c.Builder.Setters,
			Pos:     at(p + ".builder"),
		}
	}
	return out
}

func (m *moduleDoc) decl(p string, at locator) decl.Module {
	out := decl.Module{
		Name:        m.Name,
		Kind:        decl.ModuleKind(m.Kind),
		Type:        decl.TypeRef(m.Type),
		Constructor: m.Constructor,
		Required:    m.Required,
		Static:      m.Static,
		Includes:    m.Includes,
		Pos:         at(p),
	}
	for i, b := range m.Bindings {
		bp := p + indexed(".bindings", i)
		out.Bindings = append(out.Bindings, decl.Binding{
			Method:        b.Method,
			Kind:          decl.BindingKind(b.Kind),
			Provides:      decl.Qualified(b.Qualifier, decl.TypeRef(b.Type)),
			Params:        dependencies(b.Params, bp, at),
			Scope:         decl.Scope(b.Scope),
			Nullable:      b.Nullable,
			Multibinding:  decl.MultibindingKind(b.Multibinding),
			MapKey:        b.MapKey.decl(),
			ReturnsError:  b.ReturnsError,
			ReturnsFuture: b.ReturnsFuture,
			Pos:           at(bp),
		})
	}
	return out
}

func dependencies(deps []dependency, p string, at locator) []decl.Dependency {
	var out []decl.Dependency
	for i, d := range deps {
		out = append(out, decl.Dependency{
			Name:     d.Name,
			Key:      decl.Qualified(d.Qualifier, decl.TypeRef(d.Type)),
			Request:  decl.RequestKind(d.Request),
			Nullable: d.Nullable,
			Pos:      at(p + indexed(".params", i)),
		})
	}
	return out
}

// decl converts the map key. An HCL value, when present, wins over the
// literal and also infers the key type.
func (k *mapKey) decl() *decl.MapKey {
	if k == nil {
		return nil
	}
	out := &decl.MapKey{Type: decl.TypeRef(k.Type), Literal: k.Literal}
	if !k.Value.IsNull() && k.Value.IsKnown() {
		switch k.Value.Type() {
		case cty.String:
			out.Literal = strconv.Quote(k.Value.AsString())
			if out.Type == "" {
				out.Type = "string"
			}
		case cty.Number:
			out.Literal = k.Value.AsBigFloat().Text('f', -1)
			if out.Type == "" {
				out.Type = "int"
			}
		case cty.Bool:
			out.Literal = strconv.FormatBool(k.Value.True())
			if out.Type == "" {
				out.Type = "bool"
			}
		}
	}
	if out.Type == "" {
		out.Type = "string"
	}
	return out
}

func indexed(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"text/template"
)

type templateData struct {
	Component string
	Type      string
	Builder   string
	Modules   []moduleField
	Fields    []field
	Getters   []getter
	Accessors []accessor
	Create    bool
}

// componentTemplate renders everything after the import block. Layout is
// left to go/format.
var componentTemplate = template.Must(template.New("component").Parse(`
// {{.Type}} implements {{.Component}}.
type {{.Type}} struct {
{{- range .Modules}}
	{{.Field}} {{.Type}}
{{- end}}
{{range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

func (c *{{.Type}}) initialize() {
{{- range .Fields}}
	c.{{.Name}} = {{.Init}}
{{- end}}
}
{{range .Getters}}
func (c *{{$.Type}}) {{.Name}}() {{.Type}} {
	return {{.Body}}
}
{{end}}
{{- range .Accessors}}
// {{.Name}} implements {{$.Component}}.
func (c *{{$.Type}}) {{.Name}}() {{.Result}} {
	return {{.Body}}
}
{{end}}
// {{.Builder}} assembles {{.Type}} values. Modules that are not set are
// defaulted where possible.
type {{.Builder}} struct {
{{- range .Modules}}
	{{.Field}} {{.Type}}
{{- end}}
	errs []error
}

// New{{.Builder}} returns an empty builder.
func New{{.Builder}}() *{{.Builder}} {
	return &{{.Builder}}{}
}
{{range .Modules}}{{if .Setter}}
// {{.Module}} sets the {{.Module}} module.
func (b *{{$.Builder}}) {{.Module}}(m {{.Type}}) *{{$.Builder}} {
	if m == nil {
		b.errs = append(b.errs, inject.NilModule("{{.Module}}"))
		return b
	}
	b.{{.Field}} = m
	return b
}
{{end}}{{end}}
// Build returns the component, or an error naming every module that was
// passed as nil or is required and not set.
func (b *{{.Builder}}) Build() (*{{.Type}}, error) {
	c := &{{.Type}}{
{{- range .Modules}}
		{{.Field}}: b.{{.Field}},
{{- end}}
	}
	errs := append([]error(nil), b.errs...)
{{- range .Modules}}
	if c.{{.Field}} == nil {
{{- if .Default}}
		c.{{.Field}} = {{.Default}}
{{- else}}
		errs = append(errs, inject.ModuleNotSet("{{.Module}}"))
{{- end}}
	}
{{- end}}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	c.initialize()
	return c, nil
}
{{if .Create}}
// Create{{.Component}} returns a {{.Type}} with every module defaulted.
func Create{{.Component}}() *{{.Type}} {
	c, err := New{{.Builder}}().Build()
	if err != nil {
		panic(err)
	}
	return c
}
{{end}}`))

func (p *plan) render() ([]byte, error) {
	data := templateData{
		Component: p.g.Component.Name,
		Type:      p.typeName,
		Builder:   p.builderName,
		Modules:   p.modules,
		Fields:    p.fields,
		Getters:   p.getters,
		Accessors: p.access,
		Create:    p.create(),
	}
	var buf bytes.Buffer
	if err := componentTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

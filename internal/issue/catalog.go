// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/wirekit/pkg/diag"
)

type (
	// MarkdownMsg is Markdown text rendered by Issue.Render.
	MarkdownMsg string

	// Issue explains one diagnostic code.
	Issue struct {
		code  diag.Code
		title string
		mdMsg MarkdownMsg
		// related codes are listed under "See also".
		related []diag.Code
	}
)

// Code returns the diagnostic code the issue explains.
func (i *Issue) Code() diag.Code { return i.code }

// Title returns the one-line summary.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the explanation body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Related returns the codes listed under "See also".
func (i *Issue) Related() []diag.Code { return slices.Clone(i.related) }

// Markdown returns the full page: title, class, body and related codes.
func (i *Issue) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + i.title + "\n\n")
	b.WriteString("`" + string(i.code) + "` · " + string(i.code.Class()) + "\n")
	b.WriteString(string(i.mdMsg))
	if len(i.related) > 0 {
		b.WriteString("\n\n## See also\n")
		for _, c := range i.related {
			b.WriteString("- `wirekit explain " + string(c) + "`\n")
		}
	}
	return b.String()
}

// Render renders the page for the terminal. stylePath is a glamour style
// name such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var render = glamour.Render

var catalog = []*Issue{
	{
		code:  diag.CodeUnknownComponent,
		title: "Unknown component",
		mdMsg: `
The requested component is not declared in any declaration file of the unit.

## Things you can try
- Check the spelling; component names are case sensitive
- List the declaration files passed to the command
~~~
$ wirekit validate ./wire
~~~`,
	},
	{
		code:  diag.CodeComponentNotInterface,
		title: "Component is not an interface",
		mdMsg: `
@Component and @ProductionComponent may only be applied to an interface.
The generated factory implements the component's accessor methods, which is
not possible for a struct, an enum or an annotation.

## Things you can try
~~~cue
components: [{name: "App", kind: "interface"}]
~~~`,
		related: []diag.Code{diag.CodeModuleNotAnnotated},
	},
	{
		code:  diag.CodeModuleNotAnnotated,
		title: "Module is not annotated",
		mdMsg: `
A component or module references a module that is declared without a kind.
Only modules annotated with @Module or @ProducerModule contribute bindings.

## Things you can try
- Add the annotation to the module declaration:
~~~cue
modules: [{name: "AModule", kind: "producer_module"}]
~~~`,
		related: []diag.Code{diag.CodeUnknownModule},
	},
	{
		code:  diag.CodeUnknownModule,
		title: "Unknown module",
		mdMsg: `
A component or an includes list names a module that no declaration file
declares. Its bindings cannot contribute to the graph.

## Things you can try
- Check the spelling of the module reference
- Pass the file that declares the module to the command`,
		related: []diag.Code{diag.CodeModuleNotAnnotated},
	},
	{
		code:  diag.CodeBuilderMissingSetter,
		title: "Builder contract omits a required module",
		mdMsg: `
The component declares a builder contract whose setters do not cover a module
that cannot be defaulted. The generated Build method could never succeed.

## Things you can try
- Add the module to the builder setters
- Give the module a zero-argument constructor so it can be defaulted`,
		related: []diag.Code{diag.CodeBuilderUnknownModule},
	},
	{
		code:  diag.CodeBuilderUnknownModule,
		title: "Builder setter names an unused module",
		mdMsg: `
A setter in the builder contract names a module the component does not use.

## Things you can try
- Remove the setter, or add the module to the component's modules`,
		related: []diag.Code{diag.CodeBuilderMissingSetter},
	},
	{
		code:  diag.CodeMissingBinding,
		title: "Missing binding",
		mdMsg: `
A key reachable from one of the component's accessors has no binding, no
multibinding contribution and no injectable constructor. The message shows
the request trail from the accessor to the missing key.

Keys match exactly: ` + "`*C`" + ` and ` + "`C`" + ` are different keys, and so are
qualified and unqualified keys of the same type.

## Things you can try
- Add a provides or produces binding for the key to a module of the component
- Declare an injectable constructor for the type
- Producers need an executor bound to ` + "`@production producers.Executor`",
		related: []diag.Code{diag.CodeDuplicateBinding},
	},
	{
		code:  diag.CodeDuplicateBinding,
		title: "Key is bound multiple times",
		mdMsg: `
Two declarations provide the same key, or a key is bound both explicitly and
as a multibinding. The message lists every declaration.

## Things you can try
- Remove one of the bindings
- Qualify one of them to make the keys distinct`,
	},
	{
		code:  diag.CodeDependsOnProductionExecutor,
		title: "Producer depends on the production executor",
		mdMsg: `
The production executor is reserved for running producers. A producer whose
dependencies reach it, directly or through other bindings, may not depend on
the production executor.

## Things you can try
- Bind a separate, unqualified executor for application code`,
	},
	{
		code:  diag.CodeNullableMismatch,
		title: "Nullable value flows into a non-nullable request",
		mdMsg: `
A binding marked nullable provides a key requested by a consumer that does
not accept nil.

## Things you can try
- Mark the requesting parameter or accessor nullable
- Make the binding non-nullable`,
		related: []diag.Code{diag.CodeNullableProducer},
	},
	{
		code:  diag.CodeDependencyCycle,
		title: "Dependency cycle",
		mdMsg: `
The bindings form a cycle of instance requests, so no order exists in which
they can be constructed.

## Things you can try
- Request one key of the cycle as a provider or lazy value
- In production components, request it as a producer`,
	},
	{
		code:  diag.CodeScopeMismatch,
		title: "Scope not declared by the component",
		mdMsg: `
A scoped binding or injectable uses a scope the component does not declare.

## Things you can try
~~~cue
components: [{name: "App", scopes: ["singleton"]}]
~~~`,
		related: []diag.Code{diag.CodeScopedProducer},
	},
	{
		code:  diag.CodeScopedProducer,
		title: "Producer is scoped",
		mdMsg: `
Producers may not be scoped. Every producer is already computed at most once
per component instance.

## Things you can try
- Remove the scope from the produces binding`,
	},
	{
		code:  diag.CodeProducerInProvision,
		title: "Producer in a non-production component",
		mdMsg: `
A component that is not a production component uses a producer module or
reaches a producer binding.

## Things you can try
- Mark the component as production
- Move the binding into a provides module`,
		related: []diag.Code{diag.CodeProviderDependsOnProducer},
	},
	{
		code:  diag.CodeProviderDependsOnProducer,
		title: "Provision depends on a producer",
		mdMsg: `
Synchronous provisions cannot wait for asynchronous values, so providers,
injectables and multibindings may not depend on producers.

## Things you can try
- Turn the provision into a producer`,
	},
	{
		code:  diag.CodeUnsupportedRequest,
		title: "Dependency requested in an unsupported way",
		mdMsg: `
Producer and produced requests are only available inside produces bindings,
and a produces binding may not request another producer as a provider or lazy
value, since those would block on an asynchronous result.

## Things you can try
- Request the producer dependency as an instance, producer or produced value
- Turn the requesting provision into a producer`,
		related: []diag.Code{diag.CodeProviderDependsOnProducer},
	},
	{
		code:  diag.CodeEntryPointNotDeferred,
		title: "Production accessor does not return a future",
		mdMsg: `
An accessor of a production component requests a producer binding as an
instance, provider or lazy value. Producer results are only available as
futures.

## Things you can try
~~~cue
accessors: [{name: "A", type: "A", kind: "future"}]
~~~`,
	},
	{
		code:  diag.CodeProducerMultibinding,
		title: "Producer contributes to a multibinding",
		mdMsg: `
Produces bindings may not contribute to set or map multibindings.

## Things you can try
- Contribute from a provides binding instead`,
	},
	{
		code:  diag.CodeSetValuesNotSlice,
		title: "set_values binding does not return a slice",
		mdMsg: `
A set_values contribution adds every element of its result to a set, so it
must return a slice.

## Things you can try
- Change the type to a slice, or use multibinding "set" for a single element`,
	},
	{
		code:  diag.CodeMapKeyMissing,
		title: "Map contribution without a key",
		mdMsg: `
A map multibinding contribution must declare the key it is stored under.

## Things you can try
~~~hcl
map_key {
  value = "http"
}
~~~`,
		related: []diag.Code{diag.CodeDuplicateMapKey},
	},
	{
		code:  diag.CodeDuplicateMapKey,
		title: "Duplicate map key",
		mdMsg: `
Two contributions to the same map use the same key.

## Things you can try
- Give each contribution a distinct key`,
		related: []diag.Code{diag.CodeMapKeyMissing},
	},
	{
		code:  diag.CodeNullableProducer,
		title: "Nullable producer",
		mdMsg: `
@Nullable on @Produces methods does not do anything. Producers that may
yield nil already deliver nil through their future. This is a warning;
compilation continues.

## Things you can try
- Remove nullable from the produces binding
- Pass --warnings-as-errors to fail on warnings`,
	},
}

var byCode = func() map[diag.Code]*Issue {
	m := make(map[diag.Code]*Issue, len(catalog))
	for _, i := range catalog {
		m[i.code] = i
	}
	return m
}()

// Get returns the explanation for code, or nil.
func Get(code diag.Code) *Issue {
	return byCode[code]
}

// Values returns every explanation in diag.Codes order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

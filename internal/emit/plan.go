// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"
	"strings"

	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/pkg/decl"
)

type (
	// field is one provider or producer held by the component.
	field struct {
		Name string
		Type string
		Init string
	}

	// getter is a fast_init method returning a fresh instance.
	getter struct {
		Name string
		Type string
		Body string
	}

	// accessor is a component interface method.
	accessor struct {
		Name   string
		Result string
		Body   string
	}

	// moduleField is a module instance held by the component and its builder.
	moduleField struct {
		Module  string
		Field   string
		Type    string
		Default string
		Setter  bool
	}

	plan struct {
		g       *graph.Graph
		opts    Options
		ordered []*graph.Node
		names   *namer

		typeName    string
		builderName string

		modules  []moduleField
		moduleOf map[string]moduleField
		fields   []field
		getters  []getter
		access   []accessor

		// provider is the provider field of a key, producer the producer
		// field (a producer binding or the adapter of a provision).
		provider map[decl.Key]string
		producer map[decl.Key]string
		get      map[decl.Key]string
		adapt    map[decl.Key]bool
	}
)

func newPlan(g *graph.Graph, opts Options, ordered []*graph.Node) *plan {
	p := &plan{
		g:        g,
		opts:     opts,
		ordered:  ordered,
		names:    newNamer("initialize", "errs"),
		typeName: opts.Prefix + g.Component.Name,
		moduleOf: make(map[string]moduleField),
		provider: make(map[decl.Key]string),
		producer: make(map[decl.Key]string),
		get:      make(map[decl.Key]string),
		adapt:    make(map[decl.Key]bool),
	}
	p.builderName = p.typeName + "Builder"
	if b := g.Component.Builder; b != nil && b.Name != "" {
		p.builderName = b.Name
	}
	for _, a := range g.Component.Accessors {
		p.names.unique(a.Name)
	}
	p.planModules()
	p.planAdapters()
	p.planNames()
	for _, n := range ordered {
		p.planNode(n)
	}
	for _, ep := range g.EntryPoints {
		p.planAccessor(ep)
	}
	return p
}

func (p *plan) planModules() {
	var setters map[string]bool
	if b := p.g.Component.Builder; b != nil {
		setters = make(map[string]bool, len(b.Setters))
		for _, s := range b.Setters {
			setters[s] = true
		}
	}
	for _, mod := range p.g.Modules {
		if !mod.NeedsInstance() {
			continue
		}
		mf := moduleField{
			Module: mod.Name,
			Field:  p.names.unique(lowerFirst(mod.Name)),
			Type:   string(mod.Type),
			Setter: setters == nil || setters[mod.Name],
		}
		if mod.Defaultable() {
			mf.Default = "new(" + string(mod.Type.Elem()) + ")"
			if mod.Constructor != "" {
				mf.Default = mod.Constructor + "()"
			}
		}
		p.modules = append(p.modules, mf)
		p.moduleOf[mod.Name] = mf
	}
}

// planAdapters marks the synchronous nodes that feed producers or future
// accessors and therefore need a producer view.
func (p *plan) planAdapters() {
	needs := func(k decl.Key) {
		if n := p.g.Node(k); n != nil && n.Kind != graph.KindProduction {
			p.adapt[k] = true
		}
	}
	for _, n := range p.ordered {
		if n.Kind != graph.KindProduction {
			continue
		}
		for _, e := range n.Edges {
			if e.Implicit {
				continue
			}
			switch e.Request {
			case decl.RequestInstance, decl.RequestProduced, decl.RequestProducer:
				needs(e.To)
			}
		}
	}
	for _, ep := range p.g.EntryPoints {
		if ep.Accessor.Kind == decl.AccessorFuture {
			needs(ep.Key)
		}
	}
}

func (p *plan) planNames() {
	for _, n := range p.ordered {
		base := p.baseName(n)
		switch {
		case n.Kind == graph.KindProduction:
			p.producer[n.Key] = p.names.unique(base + "Producer")
			continue
		case p.fastGetter(n):
			p.get[n.Key] = p.names.unique("get" + upperFirst(base) + "Instance")
		default:
			p.provider[n.Key] = p.names.unique(base + "Provider")
		}
		if p.adapt[n.Key] {
			p.producer[n.Key] = p.names.unique(base + "Producer")
		}
	}
}

func (p *plan) baseName(n *graph.Node) string {
	switch n.Kind {
	case graph.KindProvision, graph.KindProduction:
		return lowerFirst(n.Binding.Method)
	case graph.KindInjection:
		return lowerFirst(typeIdent(n.Injectable.Type))
	case graph.KindSet:
		return "setOf" + typeIdent(n.Key.Type.Elem())
	case graph.KindMap:
		return "mapOf" + typeIdent(n.Key.Type)
	case graph.KindComponent:
		return lowerFirst(p.g.Component.Name)
	case graph.KindExecutor:
		return "productionExecutor"
	case graph.KindMonitor:
		return "monitor"
	}
	return lowerFirst(typeIdent(n.Key.Type))
}

// fastGetter reports whether n is emitted as a getter method instead of a field.
func (p *plan) fastGetter(n *graph.Node) bool {
	if p.opts.Mode != ModeFastInit {
		return false
	}
	return (n.Kind == graph.KindProvision || n.Kind == graph.KindInjection) && StrategyOf(n) == StrategyFresh
}

// --- Expressions ---

func (p *plan) providerExpr(k decl.Key) string {
	if name, ok := p.get[k]; ok {
		return fmt.Sprintf("inject.ProviderFunc[%s](c.%s)", k.Type, name)
	}
	return "c." + p.provider[k]
}

func (p *plan) instanceExpr(k decl.Key) string {
	if name, ok := p.get[k]; ok {
		return "c." + name + "()"
	}
	return "c." + p.provider[k] + ".Get()"
}

func (p *plan) producerExpr(k decl.Key) string {
	return "c." + p.producer[k]
}

// syncArg is the argument a synchronous binding passes for one dependency.
func (p *plan) syncArg(d decl.Dependency) string {
	switch d.Request {
	case decl.RequestProvider:
		return p.providerExpr(d.Key)
	case decl.RequestLazy:
		return "inject.LazyOf(" + p.providerExpr(d.Key) + ")"
	case decl.RequestProducer, decl.RequestProduced:
		return p.producerExpr(d.Key)
	default:
		return p.instanceExpr(d.Key)
	}
}

// asyncArgs returns the dependency futures a producer waits for and the
// arguments its body is called with.
func (p *plan) asyncArgs(params []decl.Dependency) (deps, args []string) {
	for _, d := range params {
		switch d.Request {
		case decl.RequestInstance:
			args = append(args, fmt.Sprintf("producers.Value[%s](deps[%d])", d.Key.Type, len(deps)))
			deps = append(deps, p.producerExpr(d.Key)+".Get()")
		case decl.RequestProduced:
			args = append(args, fmt.Sprintf("producers.ProducedOf[%s](deps[%d])", d.Key.Type, len(deps)))
			deps = append(deps, "producers.Lenient("+p.producerExpr(d.Key)+".Get())")
		default:
			args = append(args, p.syncArg(d))
		}
	}
	return deps, args
}

func (p *plan) call(b decl.Binding, args []string) string {
	callee := b.Method
	if mf, ok := p.moduleOf[b.Module]; ok {
		callee = "c." + mf.Field + "." + b.Method
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (p *plan) syncCall(b decl.Binding) string {
	args := make([]string, len(b.Params))
	for i, d := range b.Params {
		args[i] = p.syncArg(d)
	}
	return p.call(b, args)
}

func (p *plan) injectCall(inj decl.Injectable) string {
	args := make([]string, len(inj.Params))
	for i, d := range inj.Params {
		args[i] = p.syncArg(d)
	}
	return inj.Constructor + "(" + strings.Join(args, ", ") + ")"
}

func providerFunc(typ, body string) string {
	return fmt.Sprintf("inject.ProviderFunc[%s](func() %s {\n\treturn %s\n})", typ, typ, body)
}

func memoize(typ, provider string) string {
	return fmt.Sprintf("inject.NewDoubleCheck[%s](%s)", typ, provider)
}

// --- Nodes ---

func (p *plan) addField(name, typ, init string) {
	p.fields = append(p.fields, field{Name: name, Type: typ, Init: init})
}

func (p *plan) planNode(n *graph.Node) {
	typ := string(n.Key.Type)
	providerType := "inject.Provider[" + typ + "]"

	switch n.Kind {
	case graph.KindProvision, graph.KindInjection:
		var body string
		if n.Binding != nil {
			body = p.syncCall(*n.Binding)
		} else {
			body = p.injectCall(*n.Injectable)
		}
		switch {
		case p.fastGetter(n):
			p.getters = append(p.getters, getter{Name: p.get[n.Key], Type: typ, Body: body})
		case StrategyOf(n) == StrategyMemoized:
			p.addField(p.provider[n.Key], providerType, memoize(typ, providerFunc(typ, body)))
		default:
			p.addField(p.provider[n.Key], providerType, providerFunc(typ, body))
		}
	case graph.KindSet:
		p.addField(p.provider[n.Key], providerType, p.setInit(n))
	case graph.KindMap:
		p.addField(p.provider[n.Key], providerType, p.mapInit(n))
	case graph.KindComponent:
		p.addField(p.provider[n.Key], providerType, fmt.Sprintf("inject.Instance[%s](c)", typ))
	case graph.KindExecutor:
		p.addField(p.provider[n.Key], providerType, memoize(typ, p.providerExpr(p.g.ExecutorKey)))
	case graph.KindMonitor:
		body := fmt.Sprintf("producers.ComponentMonitor(%s, %s)",
			p.instanceExpr(p.g.ComponentKey()), p.instanceExpr(decl.MonitorFactoriesKey()))
		p.addField(p.provider[n.Key], providerType, memoize(typ, providerFunc(typ, body)))
	case graph.KindProduction:
		p.addField(p.producer[n.Key], "producers.Producer["+typ+"]", p.producerInit(n))
		return
	}

	if p.adapt[n.Key] {
		p.addField(p.producer[n.Key], "producers.Producer["+typ+"]",
			fmt.Sprintf("producers.FromProvider[%s](%s)", typ, p.providerExpr(n.Key)))
	}
}

// contribution adds the provider field of one multibinding contribution.
func (p *plan) contribution(b decl.Binding) string {
	name := p.names.unique(lowerFirst(b.Method) + "Provider")
	typ := string(b.Provides.Type)
	init := providerFunc(typ, p.syncCall(b))
	if b.Scope != decl.Unscoped {
		init = memoize(typ, init)
	}
	p.addField(name, "inject.Provider["+typ+"]", init)
	return "c." + name
}

func (p *plan) setInit(n *graph.Node) string {
	elem := string(n.Key.Type.Elem())
	if len(n.Contributions) == 0 {
		return fmt.Sprintf("inject.Instance[%s](nil)", n.Key.Type)
	}
	var single, many int
	var adds []string
	for _, b := range n.Contributions {
		ref := p.contribution(b)
		if b.Multibinding == decl.MultibindingSetValues {
			many++
			adds = append(adds, "AddCollectionProvider("+ref+")")
			continue
		}
		single++
		adds = append(adds, "AddProvider("+ref+")")
	}
	return fmt.Sprintf("inject.NewSetBuilder[%s](%d, %d).\n%s.\nBuild()", elem, single, many, strings.Join(adds, ".\n"))
}

func (p *plan) mapInit(n *graph.Node) string {
	first := n.Contributions[0]
	keyType, valueType := first.MapKey.Type, first.Provides.Type
	var puts []string
	for _, b := range n.Contributions {
		ref := p.contribution(b)
		puts = append(puts, fmt.Sprintf("Put(%s, %s)", b.MapKey.Literal, ref))
	}
	return fmt.Sprintf("inject.NewMapBuilder[%s, %s](%d).\n%s.\nBuild()", keyType, valueType, len(puts), strings.Join(puts, ".\n"))
}

func (p *plan) producerInit(n *graph.Node) string {
	b := *n.Binding
	typ := string(n.Key.Type)
	deps, args := p.asyncArgs(b.Params)

	collect := "nil"
	if len(deps) > 0 {
		collect = "func() []producers.Dependency {\nreturn []producers.Dependency{\n" + strings.Join(deps, ",\n") + ",\n}\n}"
	}
	depsParam := "deps"
	if len(deps) == 0 {
		depsParam = "_"
	}

	call := p.call(b, args)
	var ret string
	switch {
	case b.ReturnsFuture && b.ReturnsError:
		ret = call
	case b.ReturnsFuture:
		ret = call + ", nil"
	case b.ReturnsError:
		ret = fmt.Sprintf("producers.ReturnErr[%s](%s)", typ, call)
	default:
		ret = fmt.Sprintf("producers.Return[%s](%s)", typ, call)
	}

	return fmt.Sprintf("producers.NewProducer[%s](\n%q,\n%s,\n%s,\n%s,\nfunc(%s []producers.Dependency) (*producers.Future[%s], error) {\nreturn %s\n},\n)",
		typ, b.ContributionKey(), p.providerExpr(graph.ExecutorImplKey), p.providerExpr(graph.MonitorKey), collect, depsParam, typ, ret)
}

func (p *plan) planAccessor(ep graph.EntryPoint) {
	typ := string(ep.Key.Type)
	a := accessor{Name: ep.Accessor.Name}
	switch ep.Accessor.Kind {
	case decl.AccessorProvider:
		a.Result, a.Body = "inject.Provider["+typ+"]", p.providerExpr(ep.Key)
	case decl.AccessorLazy:
		a.Result, a.Body = "inject.Lazy["+typ+"]", "inject.LazyOf("+p.providerExpr(ep.Key)+")"
	case decl.AccessorFuture:
		a.Result, a.Body = "*producers.Future["+typ+"]", p.producerExpr(ep.Key)+".Get()"
	default:
		a.Result, a.Body = typ, p.instanceExpr(ep.Key)
	}
	p.access = append(p.access, a)
}

// create reports whether every module can be defaulted, so a no-argument
// constructor can be emitted.
func (p *plan) create() bool {
	for _, mf := range p.modules {
		if mf.Default == "" {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/internal/testutil/decltest"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

func buildGraph(t *testing.T, component string, parts ...decltest.Part) *graph.Graph {
	t.Helper()
	g, diags := graph.Build(decltest.Model(t, parts...), component, graph.DefaultBuildOptions())
	if diags.HasErrors() {
		t.Fatalf("graph.Build: %s", diags)
	}
	return g
}

func emitSource(t *testing.T, g *graph.Graph, opts Options) (*Unit, *ast.File) {
	t.Helper()
	unit, err := Emit(g, opts)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), unit.FileName, unit.Source, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, unit.Source)
	}
	return unit, f
}

func requireContains(t *testing.T, src []byte, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !bytes.Contains(src, []byte(want)) {
			t.Errorf("generated code should contain %q:\n%s", want, src)
		}
	}
}

func imports(f *ast.File) []string {
	var out []string
	for _, imp := range f.Imports {
		out = append(out, strings.Trim(imp.Path.Value, `"`))
	}
	return out
}

func TestEmit_SimpleProduction(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "SimpleComponent", decltest.SimpleProduction()...)
	unit, f := emitSource(t, g, DefaultOptions())

	if unit.FileName != "simple_component_wire.go" || unit.TypeName != "WiredSimpleComponent" {
		t.Errorf("unexpected unit naming: %s / %s", unit.FileName, unit.TypeName)
	}
	if f.Name.Name != "fixture" {
		t.Errorf("package = %s, want fixture", f.Name.Name)
	}
	want := []string{"errors", injectImport, producersImport}
	if diff := cmp.Diff(want, imports(f)); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	requireContains(t, unit.Source,
		"// Code generated by wirekit. DO NOT EDIT.",
		"// Digest: "+g.Model.Digest(),
		"type WiredSimpleComponent struct {",
		"c.cProvider = inject.ProviderFunc[*C](func() *C {",
		"return c.bModule.B(c.cProvider.Get())",
		"c.bProducer = producers.FromProvider[B](c.bProvider)",
		"c.productionExecutorProvider = inject.NewDoubleCheck[producers.Executor](c.executorProvider)",
		"producers.ComponentMonitor(c.simpleComponentProvider.Get(), c.setOfMonitorFactoryProvider.Get())",
		"c.setOfMonitorFactoryProvider = inject.Instance[[]producers.MonitorFactory](nil)",
		`"AModule.A",`,
		"return producers.Return[A](c.aModule.A(producers.Value[B](deps[0])))",
		"func (c *WiredSimpleComponent) A() *producers.Future[A] {",
		"return c.aProducer.Get()",
		"func NewWiredSimpleComponentBuilder() *WiredSimpleComponentBuilder {",
		"func (b *WiredSimpleComponentBuilder) AModule(m *AModule) *WiredSimpleComponentBuilder {",
		"c.executorModule = new(ExecutorModule)",
		"func CreateSimpleComponent() *WiredSimpleComponent {",
	)

	// Every provider is assigned after the providers it reads at initialization.
	src := string(unit.Source)
	order := []string{
		"c.executorProvider =",
		"c.cProvider =",
		"c.bProvider =",
		"c.bProducer =",
		"c.productionExecutorProvider =",
		"c.monitorProvider =",
		"c.aProducer =",
	}
	last := -1
	for _, assign := range order {
		at := strings.Index(src, assign)
		if at < last {
			t.Errorf("%q is assigned out of order", assign)
		}
		last = at
	}
}

func TestEmit_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := Emit(buildGraph(t, "SimpleComponent", decltest.SimpleProduction()...), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := Emit(buildGraph(t, "SimpleComponent", decltest.SimpleProduction()...), DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first.Source, again.Source) {
			t.Fatal("emission is not deterministic")
		}
	}
}

func TestEmit_ScopesAndRequests(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "App",
		decltest.Component("App", decltest.WithScopes("singleton"), decltest.WithModules("AppModule"),
			decltest.WithAccessor("Server", "*Server"),
			decltest.WithAccessorOf("Clock", "Clock", decl.AccessorProvider),
			decltest.WithAccessorOf("Config", "*Config", decl.AccessorLazy)),
		decltest.Module("AppModule", decl.ModuleProvider,
			decltest.With(decltest.Provides("Config", "*Config"), decltest.Scoped("singleton")),
			decltest.Provides("Clock", "Clock"),
			decltest.Provides("Server", "*Server",
				decltest.Dep("*Config"), decltest.DepOf(decl.RequestProvider, "Clock"), decltest.DepOf(decl.RequestLazy, "*Handler")),
		),
		decltest.Injectable("*Handler", "NewHandler", decltest.Dep("App")),
	)
	unit, f := emitSource(t, g, DefaultOptions())

	requireContains(t, unit.Source,
		"c.configProvider = inject.NewDoubleCheck[*Config](inject.ProviderFunc[*Config](func() *Config {",
		"c.appModule.Server(c.configProvider.Get(), c.clockProvider, inject.LazyOf(c.handlerProvider))",
		"return NewHandler(c.appProvider.Get())",
		"c.appProvider = inject.Instance[App](c)",
		"func (c *WiredApp) Clock() inject.Provider[Clock] {",
		"return inject.LazyOf(c.configProvider)",
	)
	for _, path := range imports(f) {
		if path == producersImport {
			t.Error("a provision component should not import the producers runtime")
		}
	}
}

func TestEmit_FastInit(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "SimpleComponent", decltest.SimpleProduction(decltest.WithAccessorOf("BProvider", "B", decl.AccessorProvider))...)
	unit, _ := emitSource(t, g, Options{Mode: ModeFastInit})

	requireContains(t, unit.Source,
		"func (c *WiredSimpleComponent) getCInstance() *C {",
		"return c.bModule.B(c.getCInstance())",
		"c.bProducer = producers.FromProvider[B](inject.ProviderFunc[B](c.getBInstance))",
		"return inject.ProviderFunc[B](c.getBInstance)",
	)
	if bytes.Contains(unit.Source, []byte("cProvider")) {
		t.Errorf("fast_init should not hold providers for fresh bindings:\n%s", unit.Source)
	}
}

func TestEmit_Multibindings(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "App",
		decltest.Component("App", decltest.WithModules("M1", "M2"),
			decltest.WithAccessor("Names", "[]string"),
			decltest.WithAccessor("Ports", "map[string]int")),
		decltest.Module("M1", decl.ModuleProvider,
			decltest.With(decltest.Provides("First", "string"), decltest.IntoSet()),
			decltest.With(decltest.Provides("HTTP", "int"), decltest.IntoMap("string", `"http"`)),
		),
		decltest.Module("M2", decl.ModuleProvider,
			decltest.With(decltest.Provides("Rest", "[]string"), decltest.ElementsIntoSet()),
			decltest.With(decltest.Provides("HTTPS", "int"), decltest.IntoMap("string", `"https"`)),
		),
	)
	unit, _ := emitSource(t, g, DefaultOptions())

	requireContains(t, unit.Source,
		"inject.NewSetBuilder[string](1, 1).",
		"AddProvider(c.firstProvider).",
		"AddCollectionProvider(c.restProvider).",
		"inject.NewMapBuilder[string, int](2).",
		`Put("http", c.httpProvider).`,
		`Put("https", c.httpsProvider).`,
		"func (c *WiredApp) Names() []string {",
		"return c.setOfStringProvider.Get()",
		"return c.mapOfIntProvider.Get()",
	)
}

func TestEmit_StaticAndRequiredModules(t *testing.T) {
	t.Parallel()

	static := decltest.ModuleDecl("Funcs", decl.ModuleProvider, decltest.Provides("ProvideName", "string"))
	static.Static = true
	configured := decltest.ModuleDecl("ConfigModule", decl.ModuleProvider, decltest.Provides("Port", "int"))
	configured.Required = true
	withCtor := decltest.ModuleDecl("Defaults", decl.ModuleProvider, decltest.Provides("Host", "Host"))
	withCtor.Constructor = "NewDefaults"

	g := buildGraph(t, "App",
		decltest.Component("App", decltest.WithModules("Funcs", "ConfigModule", "Defaults"),
			decltest.WithAccessor("Name", "string"),
			decltest.WithAccessor("Port", "int"),
			decltest.WithAccessor("Host", "Host")),
		decltest.Declared(static),
		decltest.Declared(configured),
		decltest.Declared(withCtor),
	)
	unit, _ := emitSource(t, g, DefaultOptions())

	requireContains(t, unit.Source,
		"return ProvideName()",
		"return c.configModule.Port()",
		`errs = append(errs, inject.ModuleNotSet("ConfigModule"))`,
		"c.defaults = NewDefaults()",
		"func (b *WiredAppBuilder) ConfigModule(m *ConfigModule) *WiredAppBuilder {",
	)
	for _, unwanted := range []string{"funcs", "CreateApp"} {
		if bytes.Contains(unit.Source, []byte(unwanted)) {
			t.Errorf("generated code should not contain %q:\n%s", unwanted, unit.Source)
		}
	}
}

func TestEmit_ProducerVariants(t *testing.T) {
	t.Parallel()

	future := decltest.Produces("Fetch", "*Page", decltest.DepOf(decl.RequestProduced, "*Request"))
	future.ReturnsFuture = true
	g := buildGraph(t, "Crawler",
		decltest.Component("Crawler", decltest.Production(), decltest.WithModules("ExecutorModule", "Pages"),
			decltest.WithAccessorOf("Page", "*Page", decl.AccessorFuture),
			decltest.WithAccessorOf("Request", "*Request", decl.AccessorFuture)),
		decltest.Module("ExecutorModule", decl.ModuleProvider, decltest.ExecutorBinding()),
		decltest.Module("Pages", decl.ModuleProducer,
			future,
			decltest.With(decltest.Produces("Request", "*Request", decltest.DepOf(decl.RequestProducer, "*Page")), decltest.ReturnsError()),
		),
	)
	unit, _ := emitSource(t, g, DefaultOptions())

	requireContains(t, unit.Source,
		"producers.Lenient(c.requestProducer.Get())",
		"return c.pages.Fetch(producers.ProducedOf[*Request](deps[0])), nil",
		"func(_ []producers.Dependency) (*producers.Future[*Request], error) {",
		"return producers.ReturnErr[*Request](c.pages.Request(c.fetchProducer))",
	)
}

func TestEmit_BuilderContract(t *testing.T) {
	t.Parallel()

	parts := func(setters ...string) []decltest.Part {
		return []decltest.Part{
			decltest.Component("App", decltest.WithModules("ConfigModule", "AppModule"),
				decltest.WithAccessor("Port", "int"), decltest.WithBuilder("AppBuilder", setters...)),
			decltest.RequiredModule("ConfigModule", decl.ModuleProvider, decltest.Provides("Port", "int")),
			decltest.Module("AppModule", decl.ModuleProvider),
		}
	}

	t.Run("complete", func(t *testing.T) {
		t.Parallel()
		unit, _ := emitSource(t, buildGraph(t, "App", parts("ConfigModule")...), DefaultOptions())
		requireContains(t, unit.Source, "type AppBuilder struct {", "func NewAppBuilder() *AppBuilder {",
			"func (b *AppBuilder) ConfigModule(m *ConfigModule) *AppBuilder {")
		if bytes.Contains(unit.Source, []byte("func (b *AppBuilder) AppModule(")) {
			t.Error("only declared setters should be emitted")
		}
	})

	t.Run("missing and unknown setters", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "App", parts("Nope")...)
		diags := CheckBuilder(g)
		if len(diags.WithCode(diag.CodeBuilderMissingSetter)) != 1 || len(diags.WithCode(diag.CodeBuilderUnknownModule)) != 1 {
			t.Fatalf("unexpected diagnostics:\n%s", diags)
		}
		_, err := Emit(g, DefaultOptions())
		var derr *diag.Error
		if !errors.As(err, &derr) || !errors.Is(err, diag.ErrCompilation) {
			t.Errorf("Emit() error = %v, want a diagnostic error", err)
		}
	})
}

func TestEmit_RejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := Emit(buildGraph(t, "SimpleComponent", decltest.SimpleProduction()...), Options{Mode: "turbo"}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Emit() with unknown mode error = %v", err)
	}

	g := buildGraph(t, "App",
		decltest.Component("App", decltest.WithAccessor("Missing", "Missing")))
	if _, err := Emit(g, DefaultOptions()); !errors.Is(err, ErrUnresolved) {
		t.Errorf("Emit() with missing keys error = %v", err)
	}
}

func TestStrategyOf(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "SimpleComponent", decltest.SimpleProduction()...)
	want := map[string]Strategy{
		"A":                            StrategyDeferred,
		"B":                            StrategyFresh,
		"*C":                           StrategyFresh,
		"SimpleComponent":              StrategyInstance,
		graph.ExecutorImplKey.String(): StrategyMemoized,
		graph.MonitorKey.String():      StrategyMemoized,
		"[]producers.MonitorFactory":   StrategyAggregate,
	}
	for _, n := range g.Nodes() {
		if s, ok := want[n.Key.String()]; ok && StrategyOf(n) != s {
			t.Errorf("StrategyOf(%s) = %s, want %s", n.Key, StrategyOf(n), s)
		}
	}
}

// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/wirekit/internal/testutil/decltest"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key.String()
	}
	return out
}

func TestBuild_SimpleProduction(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t, decltest.SimpleProduction()...)
	g, diags := Build(m, "SimpleComponent", DefaultBuildOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}

	want := []string{
		"A",
		"B",
		"*C",
		"@wirekit.executor producers.Executor",
		"@production producers.Executor",
		"@wirekit.monitor producers.Monitor",
		"SimpleComponent",
		"[]producers.MonitorFactory",
	}
	if diff := cmp.Diff(want, keys(g.Nodes())); diff != "" {
		t.Errorf("node order mismatch (-want +got):\n%s", diff)
	}

	a := g.Node(decl.NewKey("A"))
	if a.Kind != KindProduction {
		t.Fatalf("A kind = %s, want production", a.Kind)
	}
	var implicit []string
	for _, e := range a.Edges {
		if e.Implicit {
			implicit = append(implicit, e.To.String())
		}
	}
	if diff := cmp.Diff([]string{ExecutorImplKey.String(), MonitorKey.String()}, implicit); diff != "" {
		t.Errorf("producer implicit edges mismatch (-want +got):\n%s", diff)
	}

	if g.Node(decl.NewKey("*C")).Kind != KindInjection {
		t.Error("*C should resolve to its injectable constructor")
	}
	if !g.HasProduction() {
		t.Error("HasProduction() = false")
	}
	if len(g.Missing()) != 0 {
		t.Errorf("unexpected missing nodes: %v", keys(g.Missing()))
	}
}

func TestBuild_ProvisionComponentHasNoSyntheticNodes(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t,
		decltest.Component("App", decltest.WithModules("AppModule"), decltest.WithAccessor("B", "B")),
		decltest.Module("AppModule", decl.ModuleProvider, decltest.Provides("B", "B", decltest.Dep("*C"))),
		decltest.Injectable("*C", "NewC"),
	)
	g, diags := Build(m, "App", BuildOptions{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}
	if g.Node(ExecutorImplKey) != nil || g.Node(MonitorKey) != nil {
		t.Error("provision-only graph should not carry executor or monitor nodes")
	}
	if g.ExecutorKey != decl.ProductionExecutorKey() {
		t.Errorf("zero options should default the executor key, got %v", g.ExecutorKey)
	}
}

func TestBuild_UnknownComponent(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t, decltest.SimpleProduction()...)
	g, diags := Build(m, "Nope", DefaultBuildOptions())
	if g != nil {
		t.Error("expected nil graph")
	}
	if len(diags) != 1 || diags[0].Code != diag.CodeUnknownComponent {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestBuild_ModuleExpansion(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t,
		decltest.Component("App", decltest.WithModules("Top", "Shared", "Ghost", "Plain")),
		decltest.IncludingModule("Top", decl.ModuleProvider, []string{"Shared", "Inner"}),
		decltest.Module("Shared", decl.ModuleProvider),
		decltest.IncludingModule("Inner", decl.ModuleProducer, []string{"Top"}),
		decltest.Module("Plain", decl.ModuleUnannotated),
	)
	g, _ := Build(m, "App", DefaultBuildOptions())

	var names []string
	for _, mod := range g.Modules {
		names = append(names, mod.Name)
	}
	if diff := cmp.Diff([]string{"Top", "Shared", "Inner"}, names); diff != "" {
		t.Errorf("module expansion mismatch (-want +got):\n%s", diff)
	}

	want := []ModuleRef{
		{Name: "Ghost", Via: "App", Declared: false, Pos: decltest.At(1)},
		{Name: "Plain", Via: "App", Declared: true, Pos: decltest.At(100)},
	}
	if diff := cmp.Diff(want, g.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DuplicateBindings(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t,
		decltest.Component("App", decltest.WithModules("M1", "M2"), decltest.WithAccessor("S", "string")),
		decltest.Module("M1", decl.ModuleProvider, decltest.Provides("S", "string")),
		decltest.Module("M2", decl.ModuleProvider,
			decltest.Provides("Other", "string"),
			decltest.With(decltest.Provides("Many", "int"), decltest.IntoSet()),
			decltest.Provides("Ints", "[]int"),
		),
	)
	_, diags := Build(m, "App", DefaultBuildOptions())

	dups := diags.WithCode(diag.CodeDuplicateBinding)
	if len(dups) != 2 {
		t.Fatalf("expected 2 duplicate diagnostics, got:\n%s", diags)
	}
	if !strings.Contains(dups[0].Message, "M1.S") || !strings.Contains(dups[0].Message, "M2.Other") {
		t.Errorf("duplicate message should list every declaration, got %q", dups[0].Message)
	}
	if !strings.Contains(dups[1].Message, "M2.Many") || !strings.Contains(dups[1].Message, "multibinding") {
		t.Errorf("explicit and multibound duplicate not reported, got %q", dups[1].Message)
	}
	if dups[0].Component != "App" {
		t.Errorf("diagnostic component = %q, want App", dups[0].Component)
	}
}

func TestBuild_Multibindings(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t,
		decltest.Component("App", decltest.WithModules("M1", "M2"),
			decltest.WithAccessor("Names", "[]string"),
			decltest.WithAccessor("Ports", "map[string]int"),
		),
		decltest.Module("M1", decl.ModuleProvider,
			decltest.With(decltest.Provides("First", "string"), decltest.IntoSet()),
			decltest.With(decltest.Provides("HTTP", "int"), decltest.IntoMap("string", `"http"`)),
		),
		decltest.Module("M2", decl.ModuleProvider,
			decltest.With(decltest.Provides("Rest", "[]string", decltest.Dep("*C")), decltest.ElementsIntoSet()),
		),
		decltest.Injectable("*C", "NewC"),
	)
	g, diags := Build(m, "App", DefaultBuildOptions())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}

	set := g.Node(decl.NewKey("[]string"))
	if set == nil || set.Kind != KindSet {
		t.Fatalf("expected set node, got %+v", set)
	}
	var contribs []string
	for _, b := range set.Contributions {
		contribs = append(contribs, b.ContributionKey())
	}
	if diff := cmp.Diff([]string{"M1.First", "M2.Rest"}, contribs); diff != "" {
		t.Errorf("contributions mismatch (-want +got):\n%s", diff)
	}
	if len(set.Edges) != 1 || set.Edges[0].To != decl.NewKey("*C") {
		t.Errorf("set edges should be the union of contribution params, got %+v", set.Edges)
	}

	if mp := g.Node(decl.NewKey("map[string]int")); mp == nil || mp.Kind != KindMap {
		t.Errorf("expected map node, got %+v", mp)
	}
}

func TestBuild_MissingAndPath(t *testing.T) {
	t.Parallel()

	m := decltest.Model(t,
		decltest.Component("App", decltest.WithModules("M"), decltest.WithAccessor("A", "A")),
		decltest.Module("M", decl.ModuleProvider,
			decltest.Provides("A", "A", decltest.Dep("B")),
			decltest.Provides("B", "B", decltest.Dep("Missing"), decltest.QualifiedDep("q", "*C")),
		),
		decltest.Injectable("*C", "NewC"),
	)
	g, diags := Build(m, "App", DefaultBuildOptions())
	if len(diags) != 0 {
		t.Fatalf("builder should not report missing keys itself:\n%s", diags)
	}

	if diff := cmp.Diff([]string{"Missing", "@q *C"}, keys(g.Missing())); diff != "" {
		t.Errorf("missing nodes mismatch (-want +got):\n%s", diff)
	}

	path := g.PathTo(decl.NewKey("Missing"))
	var got []string
	for _, k := range path {
		got = append(got, k.String())
	}
	if diff := cmp.Diff([]string{"A", "B", "Missing"}, got); diff != "" {
		t.Errorf("PathTo mismatch (-want +got):\n%s", diff)
	}
	if g.PathTo(decl.NewKey("Unrelated")) != nil {
		t.Error("unreachable key should have no path")
	}
	if deps := g.Dependents(decl.NewKey("Missing")); len(deps) != 1 || deps[0].From != decl.NewKey("B") {
		t.Errorf("Dependents(Missing) = %+v", deps)
	}
}

func TestBuild_CustomExecutorKey(t *testing.T) {
	t.Parallel()

	custom := decl.Qualified("background", decl.ExecutorType)
	parts := decltest.SimpleProduction()
	parts = append(parts, decltest.Module("Background", decl.ModuleProvider,
		decltest.With(decltest.Provides("Background", string(decl.ExecutorType)), decltest.QualifiedBy("background"))))
	m := decltest.Model(t, parts...)

	g, _ := Build(m, "SimpleComponent", BuildOptions{ExecutorKey: custom})
	exec := g.Node(ExecutorImplKey)
	if exec == nil || exec.Edges[0].To != custom {
		t.Fatalf("executor node should depend on the configured key, got %+v", exec)
	}
	if n := g.Node(custom); n == nil || n.Kind != KindMissing {
		t.Errorf("Background module is not referenced by the component, expected a missing node, got %+v", n)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/wirekit/internal/issue"
	"github.com/invowk/wirekit/pkg/diag"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
	}{
		{name: "cue", args: []string{simpleDecl}, wantStdout: "SimpleComponent"},
		{name: "hcl", args: []string{"../../pkg/declfile/testdata/simple.hcl"}, wantStdout: "SimpleComponent"},
		{name: "component filter", args: []string{"-c", "SimpleComponent", simpleDecl}, wantStdout: "SimpleComponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stdout, stderr, err := execute(t, defaults(), append([]string{"validate"}, tt.args...)...)
			if err != nil {
				t.Fatalf("validate error = %v\nstderr:\n%s", err, stderr)
			}
			if !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
		})
	}
}

func TestValidate_ReportsDiagnostics(t *testing.T) {
	t.Parallel()

	path := writeDecl(t, "broken.cue", `
go_package: "broken"
components: [{name: "App", modules: ["Plain"]}]
modules: [{name: "Plain"}]
`)
	stdout, stderr, err := execute(t, defaults(), "validate", path)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want exit code 1", err)
	}
	if !errors.Is(err, diag.ErrCompilation) {
		t.Errorf("error should wrap ErrCompilation, got %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Resource != "App" {
		t.Errorf("error should name the failed component, got %v", err)
	}
	for _, want := range []string{
		"Plain is not annotated with one of @Module, @ProducerModule",
		"[module_not_annotated]",
		"1 error, 0 warnings",
		"wirekit explain module_not_annotated",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr should contain %q, got:\n%s", want, stderr)
		}
	}
	if stdout != "" {
		t.Errorf("failed validation should print nothing to stdout, got %q", stdout)
	}
}

func TestValidate_WarningsAsErrors(t *testing.T) {
	t.Parallel()

	path := writeDecl(t, "nullable.cue", `
go_package: "nullable"
components: [{
	name:       "App"
	production: true
	modules: ["ExecutorModule", "M"]
	accessors: [{name: "A", type: "A", kind: "future"}]
}]
modules: [{
	name:   "ExecutorModule"
	kind:   "module"
	static: true
	bindings: [{method: "Executor", type: "producers.Executor", qualifier: "production"}]
}, {
	name: "M"
	kind: "producer_module"
	bindings: [{method: "A", kind: "produces", type: "A", nullable: true}]
}]
`)

	_, stderr, err := execute(t, defaults(), "validate", path)
	if err != nil {
		t.Fatalf("warnings alone should not fail validation: %v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "@Nullable on @Produces methods does not do anything") {
		t.Errorf("stderr should carry the warning, got:\n%s", stderr)
	}

	_, _, err = execute(t, defaults(), "validate", "--warnings-as-errors", path)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("--warnings-as-errors should fail validation, got %v", err)
	}
}

func TestValidate_LoadErrors(t *testing.T) {
	t.Parallel()

	bad := writeDecl(t, "bad.cue", `go_package: "x"
modules: [{name: "M", kind: "nope"}]
`)
	_, stderr, err := execute(t, defaults(), "validate", bad)
	if err == nil {
		t.Fatal("expected an error for an invalid declaration file")
	}
	if !strings.Contains(stderr, "failed to load declarations") || !strings.Contains(stderr, "modules[0].kind") {
		t.Errorf("stderr should point at the bad field, got:\n%s", stderr)
	}

	_, _, err = execute(t, staticConfig{err: errors.New("boom")}, "validate", simpleDecl)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("config errors should surface, got %v", err)
	}
}

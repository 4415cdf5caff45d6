// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load declarations", Resource: "app.cue"},
			want: "failed to load declarations: app.cue",
		},
		{
			name: "with resource and cause",
			err:  &ActionableError{Operation: "write output", Resource: "out", Cause: errors.New("permission denied")},
			want: "failed to write output: out: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := WrapWithContext(fmt.Errorf("wrapped: %w", sentinel), "generate component", "App")
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the sentinel through the cause chain")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "load declarations",
				Resource:    "./wire/app.cue",
				Suggestions: []string{"Check the file path", "Run 'wirekit validate'"},
			},
			contains: []string{"failed to load declarations", "./wire/app.cue", "• Check the file path", "• Run 'wirekit validate'"},
		},
		{
			name:     "error chain in verbose mode",
			err:      &ActionableError{Operation: "parse config", Cause: fmt.Errorf("outer: %w", errors.New("syntax error"))},
			verbose:  true,
			contains: []string{"Error chain:", "1. outer: syntax error", "2. syntax error"},
		},
		{
			name:     "no error chain otherwise",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error")},
			excludes: []string{"Error chain:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() should contain %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ctx := NewErrorContext().
		WithOperation("write output").
		WithResource("simple_component_wire.go").
		WithSuggestion("Check directory permissions").
		Wrap(cause)

	got := ctx.Build()
	want := &ActionableError{
		Operation:   "write output",
		Resource:    "simple_component_wire.go",
		Suggestions: []string{"Check directory permissions"},
		Cause:       cause,
	}
	sameCause := cmp.FilterPath(func(p cmp.Path) bool { return p.Last().String() == ".Cause" },
		cmp.Comparer(func(a, b error) bool { return errors.Is(a, b) }))
	if diff := cmp.Diff(want, got, sameCause); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	if !got.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}

	ctx.WithSuggestion("second")
	if len(got.Suggestions) != 1 {
		t.Error("a built error should not share suggestions with its builder")
	}

	if NewErrorContext().Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return a nil interface")
	}
}

func TestFromDiagnostics(t *testing.T) {
	t.Parallel()

	list := diag.List{
		diag.Errorf(diag.CodeMissingBinding, decl.Position{}, "B cannot be provided without a binding"),
		diag.Errorf(diag.CodeMissingBinding, decl.Position{}, "C cannot be provided without a binding"),
		diag.Errorf(diag.CodeDependencyCycle, decl.Position{}, "found a dependency cycle"),
		diag.Warnf(diag.CodeNullableProducer, decl.Position{}, "@Nullable on @Produces methods does not do anything"),
	}
	ae := FromDiagnostics(list.Err(), "generate component", "App")
	want := []string{
		"Run 'wirekit explain missing_binding' for details",
		"Run 'wirekit explain dependency_cycle' for details",
	}
	if diff := cmp.Diff(want, ae.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(ae, diag.ErrCompilation) {
		t.Error("FromDiagnostics should keep the compilation error as cause")
	}

	plain := FromDiagnostics(errors.New("io"), "op", "res")
	if plain.HasSuggestions() {
		t.Error("non-diagnostic errors get no explain suggestions")
	}
	if FromDiagnostics(nil, "op", "res") != nil {
		t.Error("nil error should yield nil")
	}
}

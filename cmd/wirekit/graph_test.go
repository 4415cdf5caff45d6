// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/wirekit/internal/graph"
)

func TestGraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "text", want: "component SimpleComponent (production)"},
		{format: "dot", want: `digraph "SimpleComponent"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			stdout, stderr, err := execute(t, defaults(), "graph", "--format", tt.format, simpleDecl)
			if err != nil {
				t.Fatalf("graph error = %v\nstderr:\n%s", err, stderr)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("stdout should contain %q, got:\n%s", tt.want, stdout)
			}
		})
	}

	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := execute(t, defaults(), "graph", "-f", "toml", "-c", "SimpleComponent", simpleDecl)
		if err != nil {
			t.Fatalf("graph error = %v", err)
		}
		var doc graph.Document
		if err := toml.Unmarshal([]byte(stdout), &doc); err != nil {
			t.Fatalf("output is not TOML: %v\n%s", err, stdout)
		}
		if doc.Component != "SimpleComponent" || len(doc.EntryPoints) != 1 {
			t.Errorf("unexpected document: %+v", doc)
		}
	})
}

func TestGraph_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, defaults(), "graph", "--format", "svg", simpleDecl)
	if !errors.Is(err, errInvalidGraphFormat) {
		t.Errorf("error = %v, want errInvalidGraphFormat", err)
	}

	_, stderr, err := execute(t, defaults(), "graph", "-c", "Nope", simpleDecl)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("unknown component should fail, got %v", err)
	}
	if !strings.Contains(stderr, "unknown_component") {
		t.Errorf("stderr should name the diagnostic code, got:\n%s", stderr)
	}
}

func TestGraphFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []graphFormat{graphFormatText, graphFormatDOT, graphFormatTOML} {
		if ok, errs := f.IsValid(); !ok {
			t.Errorf("%s should be valid: %v", f, errs)
		}
	}
	ok, errs := graphFormat("png").IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("png should be invalid")
	}
	var fe *invalidGraphFormatError
	if !errors.As(errs[0], &fe) || fe.Value != "png" {
		t.Errorf("unexpected error %v", errs[0])
	}
}

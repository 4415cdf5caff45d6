// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/wirekit/internal/config"
	"github.com/invowk/wirekit/pkg/decl"
	"github.com/invowk/wirekit/pkg/diag"
)

func TestDiagnosticRenderer(t *testing.T) {
	t.Parallel()

	diags := diag.List{
		diag.Errorf(diag.CodeMissingBinding, decl.Position{File: "app.cue", Line: 3, Column: 5},
			"B cannot be provided without a binding\n    requested by: App.A() -> A -> B"),
		diag.Warnf(diag.CodeNullableProducer, decl.Position{}, "@Nullable on @Produces methods does not do anything"),
	}

	var buf bytes.Buffer
	(&defaultDiagnosticRenderer{}).Render(diags, &buf)
	out := buf.String()

	for _, want := range []string{
		"app.cue:3:5",
		"B cannot be provided without a binding",
		"[missing_binding]",
		"requested by: App.A() -> A -> B",
		"@Nullable on @Produces methods does not do anything",
		"1 error, 1 warning",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered diagnostics should contain %q, got:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines (two diagnostics, one continuation, summary), got %d:\n%s", len(lines), out)
	}

	buf.Reset()
	(&defaultDiagnosticRenderer{}).Render(nil, &buf)
	if buf.Len() != 0 {
		t.Errorf("empty list should render nothing, got %q", buf.String())
	}
}

func TestOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "app.cue")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	configured := config.DefaultConfig()
	configured.Output.Dir = "gen"

	tests := []struct {
		name  string
		flag  string
		cfg   *config.Config
		paths []string
		want  string
	}{
		{name: "flag wins", flag: "out", cfg: configured, paths: []string{file}, want: "out"},
		{name: "config", cfg: configured, paths: []string{file}, want: "gen"},
		{name: "file dir", cfg: config.DefaultConfig(), paths: []string{file}, want: dir},
		{name: "directory", cfg: config.DefaultConfig(), paths: []string{dir}, want: dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := outputDir(tt.flag, tt.cfg, tt.paths); got != tt.want {
				t.Errorf("outputDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

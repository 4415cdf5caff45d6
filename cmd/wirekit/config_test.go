// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/invowk/wirekit/internal/emit"
)

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	t.Run("show defaults", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := execute(t, defaults(), "config", "show")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Current Configuration", "(using defaults)", "production", "_wire.go", "Wired"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("config show should contain %q, got:\n%s", want, stdout)
			}
		}
	})

	t.Run("show file", func(t *testing.T) {
		t.Parallel()
		provider := defaults()
		provider.path = "wire/wirekit.cue"
		provider.cfg.Mode = emit.ModeFastInit
		stdout, _, err := execute(t, provider, "config", "show")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout, "wire/wirekit.cue") || !strings.Contains(stdout, "fast_init") {
			t.Errorf("config show should report the loaded file, got:\n%s", stdout)
		}
	})

	t.Run("dump", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := execute(t, defaults(), "config", "dump")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout, `mode: "default"`) || !strings.Contains(stdout, `qualifier: "production"`) {
			t.Errorf("config dump should print CUE, got:\n%s", stdout)
		}
	})
}

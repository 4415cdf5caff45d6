// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/invowk/wirekit/pkg/diag"
)

type defaultDiagnosticRenderer struct{}

// Render writes one block per diagnostic followed by a summary line:
//
//	file:line:col: error: message [code]
//	    continuation lines
func (r *defaultDiagnosticRenderer) Render(diags diag.List, w io.Writer) {
	if len(diags) == 0 {
		return
	}
	for _, d := range diags {
		fmt.Fprintln(w, renderDiagnostic(d))
	}
	fmt.Fprintln(w, SubtitleStyle.Render(summarize(diags)))
}

func renderDiagnostic(d diag.Diagnostic) string {
	var b strings.Builder
	if !d.Pos.IsZero() {
		b.WriteString(CmdStyle.Render(d.Pos.String()))
		b.WriteString(": ")
	}
	if d.IsError() {
		b.WriteString(ErrorStyle.Render("error"))
	} else {
		b.WriteString(WarningStyle.Render("warning"))
	}
	b.WriteString(": ")
	if d.Component != "" {
		b.WriteString(d.Component)
		b.WriteString(": ")
	}

	first, rest, _ := strings.Cut(d.Message, "\n")
	b.WriteString(first)
	if d.Code != "" {
		b.WriteString(" ")
		b.WriteString(SubtitleStyle.Render("[" + string(d.Code) + "]"))
	}
	if rest != "" {
		for line := range strings.SplitSeq(rest, "\n") {
			b.WriteString("\n")
			b.WriteString(VerboseStyle.Render(line))
		}
	}
	return b.String()
}

func summarize(diags diag.List) string {
	return fmt.Sprintf("%s, %s", plural(len(diags.Errors()), "error"), plural(len(diags.Warnings()), "warning"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

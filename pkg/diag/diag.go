// SPDX-License-Identifier: MPL-2.0

// Package diag defines the structured diagnostics produced while compiling a
// component graph. Diagnostics are returned to callers as a batch rather than
// written anywhere, so the CLI decides how to render them.
package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/wirekit/pkg/decl"
)

const (
	// SeverityError marks a diagnostic that fails compilation.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory diagnostic.
	SeverityWarning Severity = "warning"

	// ClassStructural covers declarations of the wrong shape.
	ClassStructural Class = "structural"
	// ClassResolution covers keys that resolve to zero or several bindings.
	ClassResolution Class = "resolution"
	// ClassPolicy covers graphs that resolve but break a rule.
	ClassPolicy Class = "policy"
	// ClassAdvisory covers warnings.
	ClassAdvisory Class = "advisory"
)

type (
	// Severity is the level of a diagnostic.
	Severity string

	// Class groups diagnostic codes by the kind of problem they describe.
	Class string

	// Diagnostic is one problem found in a declaration model or binding graph.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "missing_binding").
		Code    Code
		Message string
		Pos     decl.Position
		// Component is the component being compiled when the problem was found.
		Component string
	}
)

// Errorf builds an error diagnostic.
func Errorf(code Code, pos decl.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Warnf builds a warning diagnostic.
func Warnf(code Code, pos decl.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Class returns the class of the diagnostic code.
func (d Diagnostic) Class() Class {
	return d.Code.Class()
}

// IsError reports whether the diagnostic fails compilation.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// String renders the diagnostic as "pos: severity: message [code]".
func (d Diagnostic) String() string {
	var b strings.Builder
	if !d.Pos.IsZero() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(string(d.Severity))
	b.WriteString(": ")
	if d.Component != "" {
		b.WriteString(d.Component)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	if d.Code != "" {
		b.WriteString(" [")
		b.WriteString(string(d.Code))
		b.WriteString("]")
	}
	return b.String()
}

// compare orders errors before warnings, then by position.
func compare(a, b Diagnostic) int {
	if a.Severity != b.Severity {
		if a.Severity == SeverityError {
			return -1
		}
		return 1
	}
	if c := a.Pos.Compare(b.Pos); c != 0 {
		return c
	}
	return cmp.Compare(a.Component, b.Component)
}

// sortStable sorts in place keeping insertion order for equal diagnostics.
func sortStable(ds []Diagnostic) {
	slices.SortStableFunc(ds, compare)
}

// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCompilation is the sentinel wrapped by the error view of a diagnostic list.
var ErrCompilation = errors.New("component compilation failed")

type (
	// List accumulates diagnostics in the order they were found.
	List []Diagnostic

	// Error is the error view of a list that carries at least one error diagnostic.
	Error struct {
		Diagnostics List
	}
)

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	*l = append(*l, ds...)
}

// Append appends another list.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// WithComponent returns a copy where every diagnostic without a component names c.
func (l List) WithComponent(c string) List {
	out := slices.Clone(l)
	for i := range out {
		if out[i].Component == "" {
			out[i].Component = c
		}
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, Diagnostic.IsError)
}

// Errors returns the error diagnostics.
func (l List) Errors() List {
	return l.filter(SeverityError)
}

// Warnings returns the warning diagnostics.
func (l List) Warnings() List {
	return l.filter(SeverityWarning)
}

// WithCode returns the diagnostics carrying code.
func (l List) WithCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy ordered by severity, then position. Diagnostics that
// compare equal keep the order they were found in.
func (l List) Sorted() List {
	out := slices.Clone(l)
	sortStable(out)
	return out
}

// Dedup returns a copy without repeated diagnostics. The first occurrence wins.
func (l List) Dedup() List {
	type key struct {
		sev  Severity
		code Code
		msg  string
		pos  string
	}
	seen := make(map[key]bool, len(l))
	var out List
	for _, d := range l {
		k := key{d.Severity, d.Code, d.Message, d.Pos.String()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// Promote returns a copy where every warning is an error.
func (l List) Promote() List {
	out := slices.Clone(l)
	for i := range out {
		out[i].Severity = SeverityError
	}
	return out
}

// Err returns nil when the list has no errors, and an *Error otherwise.
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return &Error{Diagnostics: l.Sorted()}
}

// String renders one diagnostic per line.
func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

func (l List) filter(sev Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Error implements the error interface.
func (e *Error) Error() string {
	errs := e.Diagnostics.Errors()
	if len(errs) == 1 {
		return errs[0].String()
	}
	return fmt.Sprintf("%d errors:\n  %s", len(errs), strings.ReplaceAll(errs.String(), "\n", "\n  "))
}

// Unwrap returns ErrCompilation for errors.Is() compatibility.
func (e *Error) Unwrap() error { return ErrCompilation }

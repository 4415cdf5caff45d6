// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"cmp"
	"fmt"
)

// Position is a source location inside a declaration file.
// The zero value means the location is unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether the position carries no location.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

// String renders the position as file:line:column, dropping unknown parts.
func (p Position) String() string {
	switch {
	case p.IsZero():
		return "-"
	case p.Line == 0:
		return p.File
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Compare orders positions by file, line and column. Unknown positions sort last.
func (p Position) Compare(o Position) int {
	if p.IsZero() != o.IsZero() {
		if p.IsZero() {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(p.File, o.File); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, o.Column)
}

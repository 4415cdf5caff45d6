// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/invowk/wirekit/pkg/decl"
)

// namer hands out identifiers unique within one generated type.
type namer struct {
	used map[string]int
}

func newNamer(reserved ...string) *namer {
	n := &namer{used: make(map[string]int)}
	for _, r := range reserved {
		n.used[r] = 1
	}
	return n
}

// unique returns name, or name with the lowest numeric suffix not yet taken.
func (n *namer) unique(name string) string {
	count := n.used[name]
	n.used[name] = count + 1
	if count == 0 {
		return name
	}
	for i := count + 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if n.used[candidate] == 0 {
			n.used[candidate] = 1
			return candidate
		}
	}
}

// lowerFirst lowercases the leading upper-case run of s, keeping the last
// letter of a run followed by lower case: HTTP -> http, HTTPServer -> httpServer.
func lowerFirst(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i > 1 && i < len(r) && unicode.IsLower(r[i]):
		i--
	}
	for j := range i {
		r[j] = unicode.ToLower(r[j])
	}
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// typeIdent derives an identifier from a type expression: *pkg.Conn -> Conn,
// []string -> String, map[string]Handler -> Handler.
func typeIdent(t decl.TypeRef) string {
	s := string(t)
	for {
		switch {
		case strings.HasPrefix(s, "*"):
			s = s[1:]
		case strings.HasPrefix(s, "[]"):
			s = s[2:]
		case strings.HasPrefix(s, "map["):
			end := closingBracket(s, 3)
			if end < 0 {
				return "value"
			}
			s = s[end+1:]
		default:
			if i := strings.IndexByte(s, '['); i >= 0 {
				s = s[:i]
			}
			if i := strings.LastIndexByte(s, '.'); i >= 0 {
				s = s[i+1:]
			}
			if s == "" {
				return "value"
			}
			return upperFirst(s)
		}
	}
}

// closingBracket returns the index of the bracket closing the one at open.
func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// snake converts a Go identifier to snake case for file names.
func snake(s string) string {
	var b strings.Builder
	r := []rune(s)
	for i, c := range r {
		if unicode.IsUpper(c) {
			prevLower := i > 0 && unicode.IsLower(r[i-1])
			nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(r[i-1]))) {
				b.WriteByte('_')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}

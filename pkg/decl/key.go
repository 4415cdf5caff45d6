// SPDX-License-Identifier: MPL-2.0

package decl

import "strings"

type (
	// TypeRef is a Go type expression exactly as it appears in generated code,
	// such as "A", "*C", "[]string" or "producers.Executor".
	TypeRef string

	// Key identifies a binding: a type plus an optional qualifier.
	// Keys match exactly; there is no subtype or assignability matching.
	Key struct {
		Qualifier string
		Type      TypeRef
	}
)

// NewKey returns the unqualified key for t.
func NewKey(t TypeRef) Key {
	return Key{Type: t}
}

// Qualified returns the key for t qualified by q.
func Qualified(q string, t TypeRef) Key {
	return Key{Qualifier: q, Type: t}
}

// String renders the key as "@qualifier Type" or "Type".
func (k Key) String() string {
	if k.Qualifier == "" {
		return string(k.Type)
	}
	return "@" + k.Qualifier + " " + string(k.Type)
}

// IsZero reports whether the key names no type.
func (k Key) IsZero() bool {
	return k.Type == ""
}

// String returns the type expression.
func (t TypeRef) String() string { return string(t) }

// IsSlice reports whether t is a slice type expression.
func (t TypeRef) IsSlice() bool {
	return strings.HasPrefix(string(t), "[]")
}

// IsPointer reports whether t is a pointer type expression.
func (t TypeRef) IsPointer() bool {
	return strings.HasPrefix(string(t), "*")
}

// Elem returns the element type of a slice or pointer type expression, or t itself.
func (t TypeRef) Elem() TypeRef {
	switch {
	case t.IsSlice():
		return t[2:]
	case t.IsPointer():
		return t[1:]
	default:
		return t
	}
}

// SliceOf returns the slice type expression for t.
func SliceOf(t TypeRef) TypeRef {
	return "[]" + t
}

// MapOf returns the map type expression with key k and value v.
func MapOf(k, v TypeRef) TypeRef {
	return TypeRef("map[" + string(k) + "]" + string(v))
}

// Qualifiers returns the package qualifiers referenced by the type expression,
// for example "producers" for "[]producers.Executor".
func (t TypeRef) Qualifiers() []string {
	var out []string
	s := string(t)
	for {
		dot := strings.IndexByte(s, '.')
		if dot < 0 {
			return out
		}
		start := dot
		for start > 0 && isIdentByte(s[start-1]) {
			start--
		}
		if start < dot {
			out = append(out, s[start:dot])
		}
		s = s[dot+1:]
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

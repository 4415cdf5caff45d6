// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "test.cue")
		if !errors.Is(err, original) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
		if !strings.HasPrefix(err.Error(), "test.cue: ") {
			t.Errorf("error should start with filepath, got: %v", err)
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			t.Errorf("plain errors should not become a *ParseError, got: %v", pe)
		}
	})

	t.Run("wrapped CUE error becomes a ParseError", func(t *testing.T) {
		t.Parallel()

		cueErr := cueerrors.Newf(token.NoPos, "conflicting values %q and %q", "a", "b")
		err := FormatError(fmt.Errorf("decode: %w", cueErr), "test.cue")
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
		if len(pe.Issues) != 1 || pe.Issues[0].Message != `conflicting values "a" and "b"` {
			t.Errorf("unexpected issues: %+v", pe.Issues)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("ParseError should wrap ErrInvalidInput")
		}
	})
}

func TestParseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "single issue with position",
			err:  &ParseError{File: "app.cue", Issues: []Issue{{Path: "modules.M.kind", Message: "conflicting values", Line: 3, Column: 9}}},
			want: "app.cue:3:9: modules.M.kind: conflicting values",
		},
		{
			name: "single issue without position",
			err:  &ParseError{File: "app.cue", Issues: []Issue{{Message: "syntax error"}}},
			want: "app.cue:syntax error",
		},
		{
			name: "several issues",
			err: &ParseError{File: "app.cue", Issues: []Issue{
				{Path: "a", Message: "first", Line: 1, Column: 1},
				{Path: "b", Message: "second"},
			}},
			want: "app.cue: validation failed:\n  1:1: a: first\n  b: second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("ParseError should wrap ErrInvalidInput")
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"package"}, expected: "package"},
		{name: "nested path", path: []string{"components", "App"}, expected: "components.App"},
		{name: "array index", path: []string{"modules", "M", "bindings", "0"}, expected: "modules.M.bindings[0]"},
		{
			name:     "multiple array indices",
			path:     []string{"modules", "M", "bindings", "2", "params", "1", "key"},
			expected: "modules.M.bindings[2].params[1].key",
		},
		{name: "leading number is not an index", path: []string{"0", "x"}, expected: "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "within limit", size: 11},
		{name: "exact limit", size: 100},
		{name: "empty", size: 0},
		{name: "exceeds limit", size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "test.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				for _, want := range []string{"test.cue", "101", "100"} {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("error should contain %q, got: %v", want, err)
					}
				}
			}
		})
	}
}

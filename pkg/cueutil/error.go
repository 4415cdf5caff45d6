// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidInput is the sentinel wrapped by every ParseError.
var ErrInvalidInput = errors.New("invalid CUE input")

type (
	// Issue is one problem found in user data.
	Issue struct {
		// Path is the JSON-style path of the offending value, e.g. "modules.M.bindings[0].kind".
		Path    string
		Message string
		// Line and Column are 1-based; zero when CUE reports no position.
		Line   int
		Column int
	}

	// ParseError reports every issue CUE found in one file.
	ParseError struct {
		File   string
		Issues []Issue
	}
)

func (i Issue) String() string {
	var b strings.Builder
	if i.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", i.Line, i.Column)
	}
	if i.Path != "" {
		b.WriteString(i.Path)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if len(e.Issues) == 1 {
		return e.File + ":" + e.Issues[0].String()
	}
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrInvalidInput.
func (e *ParseError) Unwrap() error { return ErrInvalidInput }

// FormatError converts a CUE error into a *ParseError for filePath.
// Errors that carry no CUE detail are wrapped with the file path instead.
//
// Example rendering:
//
//	app.cue:12:14: modules.AModule.bindings[0].kind: 2 errors in empty disjunction
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes any error into a one-element list, so plain
	// errors have to be told apart before converting.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	cueErrs := cueerrors.Errors(err)

	pe := &ParseError{File: filePath}
	seen := make(map[string]bool)
	for _, e := range cueErrs {
		format, args := e.Msg()
		issue := Issue{
			Path:    formatPath(cueerrors.Path(e)),
			Message: fmt.Sprintf(format, args...),
		}
		if pos := e.Position(); pos.IsValid() {
			issue.Line, issue.Column = pos.Line(), pos.Column()
		}
		if key := issue.String(); !seen[key] {
			seen[key] = true
			pe.Issues = append(pe.Issues, issue)
		}
	}
	return pe
}

// formatPath converts a CUE error path such as ["modules", "M", "bindings", "0"]
// to "modules.M.bindings[0]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error when data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}

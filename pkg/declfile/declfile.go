// SPDX-License-Identifier: MPL-2.0

package declfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/wirekit/pkg/decl"
)

const (
	// FormatCUE is a CUE declaration file.
	FormatCUE Format = "cue"
	// FormatHCL is an HCL declaration file.
	FormatHCL Format = "hcl"
)

var (
	// ErrInvalidFormat is the sentinel wrapped by InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid declaration format")
	// ErrInvalidFile is returned when a declaration file cannot be decoded.
	ErrInvalidFile = errors.New("invalid declaration file")
)

type (
	// Format selects the front-end that decodes a file.
	Format string

	// InvalidFormatError is returned for an unknown Format.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid declaration format %q (valid: cue, hcl)", e.Value)
}

// Unwrap returns ErrInvalidFormat so callers can use errors.Is.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// IsValid returns whether f is a known format, with the validation errors.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatHCL:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if ok, errs := f.IsValid(); !ok {
		return "", fmt.Errorf("%s: %w", path, errs[0])
	}
	return f, nil
}

// Parse reads and decodes one declaration file.
func Parse(path string) (decl.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return decl.File{}, fmt.Errorf("read declaration file: %w", err)
	}
	return ParseBytes(path, data)
}

// ParseBytes decodes data as the declaration file at path. The extension of
// path selects the format.
func ParseBytes(path string, data []byte) (decl.File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return decl.File{}, err
	}
	return Decode(format, path, data)
}

// Decode decodes data in the given format. path is used for positions and
// messages only.
func Decode(format Format, path string, data []byte) (decl.File, error) {
	var (
		doc *document
		at  locator
		err error
	)
	switch format {
	case FormatCUE:
		doc, at, err = decodeCUE(path, data)
	case FormatHCL:
		doc, at, err = decodeHCL(path, data)
	default:
		return decl.File{}, &InvalidFormatError{Value: format}
	}
	if err != nil {
		return decl.File{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return doc.file(path, digest(data), at), nil
}

// Load parses every path and merges the files into one model. Directories
// contribute their .cue and .hcl files in lexical order.
func Load(paths ...string) (*decl.Model, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .cue or .hcl files in %s", ErrInvalidFile, strings.Join(paths, ", "))
	}

	decls := make([]decl.File, 0, len(files))
	var errs []error
	for _, path := range files {
		f, err := Parse(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		decls = append(decls, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return decl.NewModel(decls...)
}

func expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat declaration path: %w", err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read declaration directory: %w", err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if _, err := FormatOf(e.Name()); err == nil {
				names = append(names, filepath.Join(p, e.Name()))
			}
		}
		slices.Sort(names)
		out = append(out, names...)
	}
	return out, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func position(path string, line, col int) decl.Position {
	if line == 0 {
		return decl.Position{}
	}
	return decl.Position{File: path, Line: line, Column: col}
}

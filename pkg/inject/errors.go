// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModule is returned by generated builder setters given a nil module.
	ErrNilModule = errors.New("module must not be nil")
	// ErrModuleNotSet is returned by generated builders when a module that
	// cannot be defaulted was never set.
	ErrModuleNotSet = errors.New("module must be set")
)

// NilModule reports a nil module passed to the named setter.
func NilModule(name string) error {
	return fmt.Errorf("%s: %w", name, ErrNilModule)
}

// ModuleNotSet reports a required module missing from a builder.
func ModuleNotSet(name string) error {
	return fmt.Errorf("%s: %w", name, ErrModuleNotSet)
}

// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the CLI and the explanation
// catalog behind "wirekit explain".
//
// ActionableError carries what was attempted, the resource involved, and
// suggestions for fixing the problem. The catalog holds one Markdown page per
// diagnostic code, rendered for the terminal with glamour.
package issue

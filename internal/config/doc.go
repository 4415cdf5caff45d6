// SPDX-License-Identifier: MPL-2.0

// Package config loads wirekit settings using Viper with CUE as the file format.
//
// Settings come from wirekit.cue in the working directory, or from the file
// given with --config, validated against the embedded #Config schema. Values
// are merged over DefaultConfig and may be overridden through WIREKIT_*
// environment variables, for example WIREKIT_MODE=fast_init or
// WIREKIT_LOG_LEVEL=debug.
package config

// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow shared by declaration files and
// the wirekit configuration:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema root
//  3. Validate and decode into a Go struct
//
// # Usage
//
//	//go:embed decl_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[fileDoc](
//	    schemaBytes,
//	    data,
//	    "#File",
//	    cueutil.WithFilename("app.cue"),
//	)
//	if err != nil {
//	    return nil, err // *cueutil.ParseError with positions and CUE paths
//	}
//	line, col := cueutil.LineCol(result.Source, "components.App")
package cueutil

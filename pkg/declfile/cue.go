// SPDX-License-Identifier: MPL-2.0

package declfile

import (
	_ "embed"

	"github.com/invowk/wirekit/pkg/cueutil"
	"github.com/invowk/wirekit/pkg/decl"
)

//go:embed decl_schema.cue
var schema []byte

// Schema returns the CUE schema declaration files are validated against.
func Schema() []byte {
	out := make([]byte, len(schema))
	copy(out, schema)
	return out
}

func decodeCUE(path string, data []byte) (*document, locator, error) {
	result, err := cueutil.ParseAndDecode[document](schema, data, "#File", cueutil.WithFilename(path))
	if err != nil {
		return nil, nil, err
	}
	at := func(p string) decl.Position {
		line, col := cueutil.LineCol(result.Source, p)
		return position(path, line, col)
	}
	return result.Value, at, nil
}

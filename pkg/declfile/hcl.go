// SPDX-License-Identifier: MPL-2.0

package declfile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/invowk/wirekit/pkg/decl"
)

// blockPaths names the document path segment of each HCL block type.
// Repeated blocks are indexed in source order.
var blockPaths = map[string]struct {
	segment string
	single  bool
}{
	"import":     {segment: "imports"},
	"component":  {segment: "components"},
	"accessor":   {segment: "accessors"},
	"builder":    {segment: "builder", single: true},
	"module":     {segment: "modules"},
	"binding":    {segment: "bindings"},
	"param":      {segment: "params"},
	"map_key":    {segment: "map_key", single: true},
	"injectable": {segment: "injectables"},
}

func decodeHCL(path string, data []byte) (*document, locator, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, nil, diags
	}

	ranges := make(map[string]hcl.Range)
	if body, ok := file.Body.(*hclsyntax.Body); ok {
		collectRanges(body, "", ranges)
	}
	at := func(p string) decl.Position {
		r, ok := ranges[p]
		if !ok {
			return decl.Position{}
		}
		return position(path, r.Start.Line, r.Start.Column)
	}
	return &doc, at, nil
}

func collectRanges(body *hclsyntax.Body, prefix string, out map[string]hcl.Range) {
	counts := make(map[string]int)
	for _, block := range body.Blocks {
		bp, ok := blockPaths[block.Type]
		if !ok {
			continue
		}
		p := bp.segment
		if !bp.single {
			p = indexed(bp.segment, counts[block.Type])
			counts[block.Type]++
		}
		if prefix != "" {
			p = prefix + "." + p
		}
		out[p] = block.DefRange()
		collectRanges(block.Body, p, out)
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package declfile reads wirekit declaration files into decl.File values.
//
// Two formats share one document shape. CUE files (.cue) are validated
// against the embedded #File schema before decoding; HCL files (.hcl) are
// decoded with gohcl, with names carried as block labels:
//
//	go_package = "simple"
//
//	component "SimpleComponent" {
//	  production = true
//	  modules    = ["ExecutorModule", "AModule", "BModule"]
//	  accessor "A" {
//	    type = "A"
//	    kind = "future"
//	  }
//	}
//
//	module "AModule" {
//	  kind = "producer_module"
//	  binding "A" {
//	    kind = "produces"
//	    type = "A"
//	    param "b" { type = "B" }
//	  }
//	}
//
//	injectable "*C" {
//	  constructor = "NewC"
//	}
//
// Every declaration carries the position of its source block so diagnostics
// point back into the file.
package declfile

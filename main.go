// SPDX-License-Identifier: MPL-2.0

// Command wirekit compiles dependency injection declarations into Go code.
package main

import cmd "github.com/invowk/wirekit/cmd/wirekit"

func main() {
	cmd.Execute()
}

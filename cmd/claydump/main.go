// SPDX-License-Identifier: Unlicense OR MIT

// Command claydump lays out element documents and prints, draws or
// serves the resulting render commands.
package main

func main() {
	Execute()
}

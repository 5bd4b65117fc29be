// Package main is the entry point for the basesetup CLI application.
// It provisions and verifies the hosted backend project used by the storefront.
package main

import (
	"basesetup/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}

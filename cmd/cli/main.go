// Package main - CLI entry point
package main

import (
	"os"

	"landed-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

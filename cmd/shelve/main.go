// Package main provides the CLI entry point for shelve.
package main

import (
	"os"

	"shelve/internal/cli"
)

func main() {
	// cobra has already printed the error
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the entry point for respkv-cli.
//
// respkv-cli sends single commands to a respkv server, or opens an
// interactive prompt when run without a subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/respkv-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

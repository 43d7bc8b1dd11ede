// Package command provides CLI command definitions for respkv-cli.
//
// It uses urfave/cli/v2 for command parsing. Each subcommand sends one
// request to the server and prints the reply in the selected format.
package command

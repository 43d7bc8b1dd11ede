package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv-go/internal/cli/connection"
	"github.com/yndnr/respkv-go/internal/cli/output"
	"github.com/yndnr/respkv-go/internal/cli/repl"
	"github.com/yndnr/respkv-go/internal/infra/buildinfo"
	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "Send commands to a respkv server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			RawCommand(),
		},
		Action: interactive,
	}
}

// interactive runs the REPL when no subcommand is given.
func interactive(c *cli.Context) error {
	if c.NArg() > 0 {
		return cli.Exit(fmt.Sprintf("unknown command %q", c.Args().First()), 2)
	}

	flags := ParseGlobalFlags(c)
	client := connection.NewClient(flags.Server, flags.Timeout)
	defer client.Close()

	formatter := output.NewFormatter(output.Format(flags.Output))
	return repl.New(client, flags.Server, formatter, repl.WithIO(os.Stdin, c.App.Writer)).Run(c.Context)
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "respkv server address",
			EnvVars: []string{"RESPKV_CLI_SERVER"},
			Value:   "127.0.0.1:6379",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Timeout for connecting and for each request",
			Value:   connection.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, raw, json, yaml",
			Value:   string(output.FormatText),
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Timeout time.Duration
	Output  string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:  c.String("server"),
		Timeout: c.Duration("timeout"),
		Output:  c.String("output"),
	}
}

// execute sends args to the server and prints the reply. An error reply is
// printed and also turned into a non-zero exit status.
func execute(c *cli.Context, args ...string) error {
	flags := ParseGlobalFlags(c)

	client := connection.NewClient(flags.Server, flags.Timeout)
	defer client.Close()

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	reply, err := client.Do(ctx, args...)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	formatter := output.NewFormatter(output.Format(flags.Output))
	if err := formatter.Format(c.App.Writer, reply); err != nil {
		return err
	}

	if reply.Kind == resp.KindError {
		return cli.Exit("", 1)
	}
	return nil
}

package command

import (
	"strconv"

	"github.com/urfave/cli/v2"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			return execute(c, "PING")
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server return the concatenated arguments",
		ArgsUsage: "<message>...",
		Action: func(c *cli.Context) error {
			return execute(c, append([]string{"ECHO"}, c.Args().Slice()...)...)
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("get requires exactly one key", 2)
			}
			return execute(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set the value of a key, optionally with an expiry",
		ArgsUsage: "<key> <value>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "ex",
				Usage: "Expire after `SECONDS`",
			},
			&cli.Int64Flag{
				Name:  "px",
				Usage: "Expire after `MILLISECONDS`",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("set requires a key and a value", 2)
	}
	if c.IsSet("ex") && c.IsSet("px") {
		return cli.Exit("--ex and --px are mutually exclusive", 2)
	}

	args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
	switch {
	case c.IsSet("ex"):
		args = append(args, "EX", strconv.FormatInt(c.Int64("ex"), 10))
	case c.IsSet("px"):
		args = append(args, "PX", strconv.FormatInt(c.Int64("px"), 10))
	}
	return execute(c, args...)
}

// RawCommand returns the raw command, which sends its arguments verbatim.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send an arbitrary command",
		ArgsUsage: "<command> [arg...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("raw requires a command", 2)
			}
			return execute(c, c.Args().Slice()...)
		},
	}
}

package respserver

import (
	"strings"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// CommandKind identifies a supported command.
type CommandKind int

const (
	CmdUnrecognized CommandKind = iota
	CmdPing
	CmdEcho
	CmdGet
	CmdSet
)

// String returns the lower-case command name, used as a metric label.
func (k CommandKind) String() string {
	switch k {
	case CmdPing:
		return "ping"
	case CmdEcho:
		return "echo"
	case CmdGet:
		return "get"
	case CmdSet:
		return "set"
	default:
		return "unrecognized"
	}
}

// Command is a decoded request: its kind and the arguments after the verb.
type Command struct {
	Kind CommandKind
	Args []string
}

// CommandFromValue maps a decoded frame to a Command.
//
// A request is an array whose first element is a bulk string verb. Later
// bulk string elements become Args in order; elements of other kinds are
// skipped. Anything that is not shaped like a request is unrecognized.
func CommandFromValue(v resp.Value) Command {
	if v.Kind != resp.KindArray || len(v.Array) == 0 || v.Array[0].Kind != resp.KindBulkString {
		return Command{Kind: CmdUnrecognized}
	}

	var args []string
	for _, elem := range v.Array[1:] {
		if elem.Kind == resp.KindBulkString {
			args = append(args, elem.Str)
		}
	}

	return Command{
		Kind: commandKind(v.Array[0].Str),
		Args: args,
	}
}

func commandKind(verb string) CommandKind {
	switch strings.ToLower(verb) {
	case "ping":
		return CmdPing
	case "echo":
		return CmdEcho
	case "get":
		return CmdGet
	case "set":
		return CmdSet
	default:
		return CmdUnrecognized
	}
}

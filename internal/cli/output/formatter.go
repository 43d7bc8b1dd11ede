package output

import (
	"io"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter writes a reply.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format. Unknown formats
// fall back to text.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatRaw:
		return RawFormatter{}
	case FormatJSON:
		return JSONFormatter{}
	case FormatYAML:
		return YAMLFormatter{}
	default:
		return TextFormatter{}
	}
}

// toData converts a reply into plain Go values for the structured encoders.
// Error replies become {"error": text} so they stay distinguishable from
// strings.
func toData(v resp.Value) any {
	switch v.Kind {
	case resp.KindSimpleString, resp.KindBulkString:
		return v.Str
	case resp.KindError:
		return map[string]string{"error": v.Str}
	case resp.KindInteger:
		return v.Int
	case resp.KindArray:
		items := make([]any, len(v.Array))
		for i, elem := range v.Array {
			items[i] = toData(elem)
		}
		return items
	default:
		return nil
	}
}

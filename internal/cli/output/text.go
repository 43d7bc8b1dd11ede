package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// TextFormatter prints replies the way redis-cli does.
type TextFormatter struct{}

// Format implements Formatter.
func (TextFormatter) Format(w io.Writer, v resp.Value) error {
	_, err := io.WriteString(w, text(v, 0))
	return err
}

func text(v resp.Value, indent int) string {
	switch v.Kind {
	case resp.KindSimpleString:
		return v.Str + "\n"
	case resp.KindBulkString:
		return strconv.Quote(v.Str) + "\n"
	case resp.KindError:
		return "(error) " + v.Str + "\n"
	case resp.KindInteger:
		return fmt.Sprintf("(integer) %d\n", v.Int)
	case resp.KindArray:
		if len(v.Array) == 0 {
			return "(empty array)\n"
		}
		return arrayText(v.Array, indent)
	default:
		return "(nil)\n"
	}
}

func arrayText(items []resp.Value, indent int) string {
	width := len(strconv.Itoa(len(items)))
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	for i, item := range items {
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		if i > 0 {
			b.WriteString(pad)
		}
		b.WriteString(prefix)
		b.WriteString(text(item, indent+len(prefix)))
	}
	return b.String()
}

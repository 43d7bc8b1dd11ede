package output

import (
	"io"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// RawFormatter writes the RESP encoding of the reply.
type RawFormatter struct{}

// Format implements Formatter.
func (RawFormatter) Format(w io.Writer, v resp.Value) error {
	_, err := w.Write(resp.Encode(v))
	return err
}

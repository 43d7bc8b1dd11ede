package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// JSONFormatter formats replies as indented JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (JSONFormatter) Format(w io.Writer, v resp.Value) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toData(v))
}

package output

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// YAMLFormatter formats replies as YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (YAMLFormatter) Format(w io.Writer, v resp.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toData(v)); err != nil {
		return err
	}
	return enc.Close()
}

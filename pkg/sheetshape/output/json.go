// Package output serializes engine results.
package output

import (
	"bytes"
	"encoding/json"
	"io"
)

// ToJSON encodes v as JSON. HTML characters are not escaped so sheet text
// round-trips verbatim.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v, pretty); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write encodes v as JSON to w, followed by a newline.
func Write(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// codec restores original representation of the source after conversion.
type codec struct {
	bom []byte
	enc encoding.Encoding
}

// decodeSource returns source text as UTF-8. Byte order marks take
// precedence over configured code page.
func decodeSource(data []byte, cp encoding.Encoding) (string, codec, error) {
	var c codec
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		c.bom, data = utf8BOM, data[len(utf8BOM):]
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		c.enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		c.enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	default:
		c.enc = cp
	}

	if c.enc != nil {
		out, err := c.enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", c, fmt.Errorf("unable to decode source: %w", err)
		}
		data = out
	}
	if !utf8.Valid(data) {
		return "", c, errors.New("source is not valid UTF-8, source code page may be required")
	}
	return string(data), c, nil
}

func (c codec) encode(text string) ([]byte, error) {
	if c.enc != nil {
		out, err := c.enc.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("unable to encode result: %w", err)
		}
		return out, nil
	}
	return append(bytes.Clone(c.bom), text...), nil
}

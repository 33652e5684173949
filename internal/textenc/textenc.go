// Package textenc decodes bank and chart exports, which French banking
// software frequently writes in Windows-1252 rather than UTF-8.
package textenc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported encoding names.
const (
	Auto        = "auto"
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
	ISO88591    = "iso-8859-1"
)

// Lookup returns the decoder for name. Auto is not a concrete encoding and
// is rejected here; use Detect.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case UTF8, "utf8":
		return unicode.UTF8BOM, nil
	case Windows1252, "cp1252":
		return charmap.Windows1252, nil
	case ISO88591, "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// Detect picks UTF-8 when data is valid UTF-8 and Windows-1252 otherwise.
func Detect(data []byte) encoding.Encoding {
	if utf8.Valid(data) {
		return unicode.UTF8BOM
	}
	return charmap.Windows1252
}

// NewReader returns a UTF-8 reader over data decoded with the named encoding.
// An empty name means Auto.
func NewReader(data []byte, name string) (io.Reader, error) {
	var enc encoding.Encoding
	if name == "" || strings.EqualFold(name, Auto) {
		enc = Detect(data)
	} else {
		var err error
		enc, err = Lookup(name)
		if err != nil {
			return nil, err
		}
	}
	return transform.NewReader(bytes.NewReader(data), enc.NewDecoder()), nil
}

// Decode returns data converted to UTF-8.
func Decode(data []byte, name string) ([]byte, error) {
	r, err := NewReader(data, name)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	return out, nil
}

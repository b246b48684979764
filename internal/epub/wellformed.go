package epub

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotWellFormed reports an XML document a strict parser rejects.
var ErrNotWellFormed = errors.New("not well-formed XML")

// maxQuoted bounds the stray text quoted in an error.
const maxQuoted = 24

// WellFormed parses data strictly: balanced tags, known entities, exactly
// one root element and nothing but whitespace, comments, processing
// instructions or a doctype outside it.
func WellFormed(data []byte) error {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true

	depth, roots := 0, 0
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotWellFormed, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: second root element <%s>", ErrNotWellFormed, tok.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				if text := strings.TrimSpace(string(tok)); text != "" {
					return fmt.Errorf("%w: text outside the root element: %q", ErrNotWellFormed, quote(text))
				}
			}
		}
	}
	if roots == 0 {
		return fmt.Errorf("%w: no root element", ErrNotWellFormed)
	}
	return nil
}

// isXMLMediaType reports whether documents of media type mt must be
// well-formed XML.
func isXMLMediaType(mt string) bool {
	mt = strings.ToLower(strings.TrimSpace(mt))
	return strings.HasSuffix(mt, "+xml") || strings.HasSuffix(mt, "/xml")
}

func quote(s string) string {
	if r := []rune(s); len(r) > maxQuoted {
		return string(r[:maxQuoted]) + "..."
	}
	return s
}

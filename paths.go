package md2epub

import (
	"path"
	"strings"
	"unicode"
)

// ShiftPath drops the first segment of a slash-separated path:
// "foo/bar/baz" becomes "bar/baz". A path without a separator is returned
// unchanged.
func ShiftPath(p string) string {
	i := strings.IndexByte(p, '/')
	if i == -1 {
		return p
	}
	return p[i+1:]
}

// MDExtToXHTML swaps a trailing ".md" for ".xhtml".
// Other paths are returned unchanged.
func MDExtToXHTML(p string) string {
	if !strings.HasSuffix(p, ".md") {
		return p
	}
	return strings.TrimSuffix(p, ".md") + ".xhtml"
}

// DotToHyphen replaces every "." with "-".
func DotToHyphen(name string) string {
	return strings.ReplaceAll(name, ".", "-")
}

// AppendVersion inserts "-version" before the extension of name.
// The default version, or an empty one, leaves name unchanged.
func AppendVersion(name, version string) string {
	if version == "" || version == DefaultVersion {
		return name
	}
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + version + ext
}

// XMLID turns a manifest href into a valid XML id: "/" and "." become "-",
// other characters outside [A-Za-z0-9_-] become "_", and a leading digit or
// hyphen gets an "id-" prefix.
func XMLID(p string) string {
	var sb strings.Builder
	for _, r := range p {
		switch {
		case r == '/' || r == '.':
			sb.WriteByte('-')
		case r == '-' || r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" || !unicode.IsLetter(rune(id[0])) && id[0] != '_' {
		id = "id-" + id
	}
	return id
}

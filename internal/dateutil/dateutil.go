// Package dateutil resolves the book's publication date and formats the
// package modification timestamp.
package dateutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable "auto" date value.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ModifiedLayout is the Go layout of dcterms:modified: UTC, whole seconds.
const ModifiedLayout = "2006-01-02T15:04:05Z"

// DefaultPrecision is used when "auto" is given without a precision.
const DefaultPrecision = "day"

// Precisions maps the names accepted after "auto:" to W3CDTF layouts,
// the forms dc:date accepts.
var Precisions = map[string]string{
	"year":     "2006",
	"month":    "2006-01",
	"day":      "2006-01-02",
	"datetime": ModifiedLayout,
}

// Modified formats t as a dcterms:modified value.
func Modified(t time.Time) string {
	return t.UTC().Format(ModifiedLayout)
}

// ResolveDate handles the config date:
//   - "auto" is the build date, e.g. 2024-03-09
//   - "auto:PRECISION" is the build time at year, month, day or datetime precision
//   - any other value is returned trimmed
//
// t is the build clock; it is converted to UTC.
func ResolveDate(value string, t time.Time) (string, error) {
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)

	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	precision := DefaultPrecision
	switch {
	case lower == "auto":
	case strings.HasPrefix(lower, "auto:"):
		precision = strings.TrimSpace(lower[len("auto:"):])
	default:
		return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:PRECISION\"", ErrInvalidDateFormat, value)
	}

	layout, ok := Precisions[precision]
	if !ok {
		return "", fmt.Errorf("%w: unknown precision %q (available: %s)", ErrInvalidDateFormat, precision, strings.Join(precisionNames(), ", "))
	}
	return t.UTC().Format(layout), nil
}

func precisionNames() []string {
	names := make([]string, 0, len(Precisions))
	for name := range Precisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

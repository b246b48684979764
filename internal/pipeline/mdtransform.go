package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged and are turned into <mark> tags
// after rendering, so ==highlight== works with raw HTML disabled.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==, non-empty and not padded with spaces
	highlightPattern = regexp.MustCompile(`==(\S(?:[^=]*?\S)?)==`)

	// Fence opener for fenced code blocks
	fencePattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

	// Key line of a "Key: value" metadata header
	metaKeyPattern = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)

	// Continuation line of a metadata header value
	metaContinuationPattern = regexp.MustCompile(`^[ ]{4,}(.*)$`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = normalizeMetadataHeader(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// normalizeMetadataHeader rewrites a leading "Key: value" header block into
// YAML front matter. Keys are lowercased and each key maps to the list of
// its values; indented lines continue the previous key. Content that already
// starts with "---" or has no header is returned unchanged.
func normalizeMetadataHeader(content string) string {
	if strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	keys := []string{}
	values := map[string][]string{}
	current := ""
	end := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			end = i
			break
		}
		if m := metaKeyPattern.FindStringSubmatch(line); m != nil {
			current = strings.ToLower(m[1])
			if _, seen := values[current]; !seen {
				keys = append(keys, current)
			}
			values[current] = append(values[current], strings.TrimSpace(m[2]))
			continue
		}
		if m := metaContinuationPattern.FindStringSubmatch(line); m != nil && current != "" {
			values[current] = append(values[current], strings.TrimSpace(m[1]))
			continue
		}
		return content
	}
	if len(keys) == 0 {
		return content
	}
	if end == -1 {
		end = len(lines)
	}

	header := yaml.MapSlice{}
	for _, k := range keys {
		header = append(header, yaml.MapItem{Key: k, Value: values[k]})
	}
	out, err := yaml.Marshal(header)
	if err != nil {
		return content
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		sb.WriteByte('\n')
	}
	sb.WriteString("---\n")
	sb.WriteString(strings.Join(lines[end:], "\n"))
	return sb.String()
}

// convertHighlights transforms ==text== to placeholder markers outside code.
// Fenced code blocks and inline code spans are left untouched.
// The placeholders are converted to <mark> tags by ConvertMarkPlaceholders.
func convertHighlights(content string) string {
	lines := strings.Split(content, "\n")
	fence := ""

	for i, line := range lines {
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case m[1][0] == fence[0] && len(m[1]) >= len(fence) && strings.TrimSpace(line[len(m[0]):]) == "":
				fence = ""
			}
			continue
		}
		if fence != "" || !strings.Contains(line, "==") {
			continue
		}
		lines[i] = highlightOutsideCodeSpans(line)
	}
	return strings.Join(lines, "\n")
}

// highlightOutsideCodeSpans applies highlightPattern to the parts of line
// that are not inside backtick code spans.
func highlightOutsideCodeSpans(line string) string {
	var sb strings.Builder
	rest := line
	for {
		open := strings.IndexByte(rest, '`')
		if open == -1 {
			sb.WriteString(highlightPattern.ReplaceAllString(rest, MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
			return sb.String()
		}
		ticks := countTicks(rest[open:])
		closing := strings.Index(rest[open+ticks:], rest[open:open+ticks])
		if closing == -1 {
			sb.WriteString(highlightPattern.ReplaceAllString(rest, MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
			return sb.String()
		}
		end := open + ticks + closing + ticks
		sb.WriteString(highlightPattern.ReplaceAllString(rest[:open], MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
		sb.WriteString(rest[open:end])
		rest = rest[end:]
	}
}

func countTicks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after goldmark rendering to finalize highlight markup.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

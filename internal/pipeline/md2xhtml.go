package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors for chapter conversion.
var (
	ErrXHTMLConversion       = errors.New("XHTML conversion failed")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// ConverterOptions configures a Converter.
type ConverterOptions struct {
	// RawHTML passes HTML embedded in Markdown through to the output.
	RawHTML bool
	// HardWraps renders newlines inside paragraphs as <br/>.
	HardWraps bool
	// HighlightStyle names a chroma style for fenced code blocks.
	// Empty disables highlighting.
	HighlightStyle string
}

// Document is the result of converting one chapter.
type Document struct {
	Body  string         // XHTML fragment, without the page wrapper
	Meta  map[string]any // front matter, never nil
	Title string
}

// Converter turns Markdown chapters into XHTML fragments.
// Each Convert call parses with its own parser context, so front matter and
// heading ids from one chapter are never visible to the next.
type Converter struct {
	md           goldmark.Markdown
	preprocessor MarkdownPreprocessor
}

// NewConverter creates a Converter with front matter, abbreviation, footnote,
// definition list and GFM extensions.
func NewConverter(opts ConverterOptions) (*Converter, error) {
	extensions := []goldmark.Extender{
		meta.Meta,
		Abbreviation,
		extension.Footnote,
		extension.DefinitionList,
		extension.GFM,
	}

	if opts.HighlightStyle != "" {
		if _, ok := styles.Registry[opts.HighlightStyle]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, opts.HighlightStyle)
		}
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(opts.HighlightStyle),
		))
	}

	rendererOpts := []renderer.Option{html.WithXHTML()}
	if opts.RawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Converter{md: md, preprocessor: &CommonMarkPreprocessor{}}, nil
}

// Convert converts one Markdown source to an XHTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *Converter) Convert(ctx context.Context, source string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		doc, err := c.convert(c.preprocessor.PreprocessMarkdown(ctx, source))
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *Converter) convert(source string) (*Document, error) {
	src := []byte(source)
	pc := parser.NewContext()

	root := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXHTMLConversion, err)
	}

	metadata, err := meta.TryGet(pc)
	if err != nil {
		return nil, fmt.Errorf("%w: front matter: %v", ErrXHTMLConversion, err)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	title := MetaString(metadata, "title")
	if title == "" {
		title = firstHeading(root, src)
	}

	body, err := RewriteChapterLinks(ConvertMarkPlaceholders(buf.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXHTMLConversion, err)
	}

	return &Document{Body: body, Meta: metadata, Title: title}, nil
}

// MetaString returns metadata[key] as a string. Lists yield their first
// element; anything else is formatted with fmt.
func MetaString(metadata map[string]any, key string) string {
	v, ok := metadata[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) == 0 {
			return ""
		}
		return MetaString(map[string]any{key: val[0]}, key)
	case []string:
		if len(val) == 0 {
			return ""
		}
		return strings.TrimSpace(val[0])
	default:
		return fmt.Sprint(val)
	}
}

// firstHeading returns the plain text of the first level-1 heading.
func firstHeading(root ast.Node, source []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text content below n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(plainText(c, source))
		}
	}
	return sb.String()
}

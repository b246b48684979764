package pipeline

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindAbbreviationDefinition is the NodeKind of AbbreviationDefinition.
var KindAbbreviationDefinition = ast.NewNodeKind("AbbreviationDefinition")

// AbbreviationDefinition is a "*[HTML]: Hyper Text Markup Language" line.
// Definitions are removed from the tree once their terms are applied.
type AbbreviationDefinition struct {
	ast.BaseBlock
	Term  []byte
	Title []byte
}

// Kind implements ast.Node.
func (n *AbbreviationDefinition) Kind() ast.NodeKind { return KindAbbreviationDefinition }

// Dump implements ast.Node.
func (n *AbbreviationDefinition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Term":  string(n.Term),
		"Title": string(n.Title),
	}, nil)
}

// KindAbbr is the NodeKind of Abbr.
var KindAbbr = ast.NewNodeKind("Abbr")

// Abbr is an occurrence of a defined term in running text.
// Its single child is the matched text.
type Abbr struct {
	ast.BaseInline
	Title []byte
}

// Kind implements ast.Node.
func (n *Abbr) Kind() ast.NodeKind { return KindAbbr }

// Dump implements ast.Node.
func (n *Abbr) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Title": string(n.Title)}, nil)
}

// abbreviationParser opens an AbbreviationDefinition block.
type abbreviationParser struct{}

func (p *abbreviationParser) Trigger() []byte {
	return []byte{'*'}
}

func (p *abbreviationParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	term, title, ok := parseAbbreviationLine(line)
	if !ok {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &AbbreviationDefinition{Term: term, Title: title}, parser.NoChildren
}

func (p *abbreviationParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *abbreviationParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *abbreviationParser) CanInterruptParagraph() bool { return true }

func (p *abbreviationParser) CanAcceptIndentedLine() bool { return false }

// parseAbbreviationLine splits "*[TERM]: title" into its parts.
func parseAbbreviationLine(line []byte) (term, title []byte, ok bool) {
	line = util.TrimLeftSpace(line)
	if !bytes.HasPrefix(line, []byte("*[")) {
		return nil, nil, false
	}
	closeIdx := bytes.IndexByte(line, ']')
	if closeIdx < 3 || closeIdx+1 >= len(line) || line[closeIdx+1] != ':' {
		return nil, nil, false
	}
	term = bytes.TrimSpace(line[2:closeIdx])
	if len(term) == 0 {
		return nil, nil, false
	}
	title = bytes.TrimSpace(line[closeIdx+2:])
	return term, title, true
}

// abbreviationTransformer wraps every whole-word occurrence of a defined
// term in an Abbr node, then drops the definitions.
type abbreviationTransformer struct{}

func (t *abbreviationTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var defs []*AbbreviationDefinition
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if d, ok := n.(*AbbreviationDefinition); ok {
				defs = append(defs, d)
			}
		}
		return ast.WalkContinue, nil
	})
	if len(defs) == 0 {
		return
	}

	titles := map[string][]byte{}
	for _, d := range defs {
		titles[string(d.Term)] = d.Title
		d.Parent().RemoveChild(d.Parent(), d)
	}

	terms := make([]string, 0, len(titles))
	for term := range titles {
		terms = append(terms, term)
	}
	// Longest first so "HTML5" wins over "HTML".
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	pattern := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)

	source := reader.Source()
	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			texts = append(texts, node)
		}
		return ast.WalkContinue, nil
	})

	for _, txt := range texts {
		splitAbbreviations(txt, source, pattern, titles)
	}
}

// splitAbbreviations replaces txt with a run of Text and Abbr nodes.
func splitAbbreviations(txt *ast.Text, source []byte, pattern *regexp.Regexp, titles map[string][]byte) {
	value := txt.Segment.Value(source)
	matches := pattern.FindAllIndex(value, -1)
	if len(matches) == 0 {
		return
	}

	parent := txt.Parent()
	seg := txt.Segment
	pos := 0
	var last *ast.Text

	for _, m := range matches {
		if m[0] > pos {
			before := ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Start+m[0]))
			parent.InsertBefore(parent, txt, before)
		}
		abbr := &Abbr{Title: titles[string(value[m[0]:m[1]])]}
		last = ast.NewTextSegment(text.NewSegment(seg.Start+m[0], seg.Start+m[1]))
		abbr.AppendChild(abbr, last)
		parent.InsertBefore(parent, txt, abbr)
		pos = m[1]
	}

	if pos < len(value) {
		last = ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Stop))
		parent.InsertBefore(parent, txt, last)
	}
	last.SetSoftLineBreak(txt.SoftLineBreak())
	last.SetHardLineBreak(txt.HardLineBreak())
	parent.RemoveChild(parent, txt)
}

// abbreviationRenderer renders Abbr nodes as <abbr title="...">.
type abbreviationRenderer struct{}

func (r *abbreviationRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAbbr, r.renderAbbr)
	reg.Register(KindAbbreviationDefinition, r.renderDefinition)
}

func (r *abbreviationRenderer) renderAbbr(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</abbr>")
		return ast.WalkContinue, nil
	}
	n := node.(*Abbr)
	_, _ = w.WriteString(`<abbr title="`)
	_, _ = w.Write(util.EscapeHTML(n.Title))
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

func (r *abbreviationRenderer) renderDefinition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

type abbreviation struct{}

// Abbreviation is a goldmark extension for "*[TERM]: title" definitions.
var Abbreviation = &abbreviation{}

// Extend implements goldmark.Extender.
func (e *abbreviation) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&abbreviationParser{}, 100)),
		parser.WithASTTransformers(util.Prioritized(&abbreviationTransformer{}, 100)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&abbreviationRenderer{}, 500),
	))
}

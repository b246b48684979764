package md2epub

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alnah/go-md2epub/internal/assets"
)

// Output names of the rendered package documents, relative to OEBPS.
const (
	PackageDocument = "content.opf"
	NavDocument     = "nav.xhtml"
)

// Renderer renders the package, navigation and chapter templates.
// Templates come from the loader (project overrides first, embedded
// defaults otherwise) and are parsed once, on first use.
type Renderer struct {
	loader    assets.AssetLoader
	funcs     template.FuncMap
	templates map[string]*template.Template
}

// NewRenderer creates a Renderer. titles and media back the md_to_title and
// media_type helpers; titles may still be filled after construction.
func NewRenderer(loader assets.AssetLoader, titles TitleIndex, media MediaTypes) *Renderer {
	if titles == nil {
		titles = TitleIndex{}
	}
	if media == nil {
		media = MediaTypes{}
	}
	return &Renderer{
		loader:    loader,
		funcs:     FuncMap(titles, media),
		templates: map[string]*template.Template{},
	}
}

// FuncMap returns the helpers registered in every template.
func FuncMap(titles TitleIndex, media MediaTypes) template.FuncMap {
	return template.FuncMap{
		"shift_path":      ShiftPath,
		"md_ext_to_xhtml": MDExtToXHTML,
		"dot_to_hyphen":   DotToHyphen,
		"md_to_title":     titles.Lookup,
		"media_type":      media.Lookup,
		"xml_id":          XMLID,
	}
}

// ChapterPage is the data of one rendered chapter.
type ChapterPage struct {
	Path        string // chapter path as listed in contents
	Title       string
	Body        string // pre-rendered XHTML fragment
	Language    string
	Stylesheets []string       // hrefs relative to OEBPS
	Meta        map[string]any // chapter front matter
}

// RenderPackage renders content.opf.
func (r *Renderer) RenderPackage(w io.Writer, book *BookContext) error {
	return r.execute(w, assets.PackageTemplate, book.TemplateData())
}

// RenderNav renders nav.xhtml.
func (r *Renderer) RenderNav(w io.Writer, book *BookContext) error {
	return r.execute(w, assets.NavTemplate, book.TemplateData())
}

// RenderChapter wraps a converted chapter in the page template.
// Stylesheet hrefs are made relative to the chapter's directory.
func (r *Renderer) RenderChapter(w io.Writer, page ChapterPage) error {
	meta := page.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	data := map[string]any{
		"title":         page.Title,
		"markdown_body": template.HTML(page.Body), // #nosec G203 -- converter output
		"language":      page.Language,
		"stylesheets":   RelativeTo(page.Path, page.Stylesheets),
		"meta":          meta,
		"path":          MDExtToXHTML(page.Path),
	}
	return r.execute(w, assets.ChapterTemplate, data)
}

// RelativeTo rewrites OEBPS-relative hrefs so they resolve from the
// directory of from: RelativeTo("part1/ch.md", ["style.css"]) yields
// ["../style.css"].
func RelativeTo(from string, hrefs []string) []string {
	prefix := strings.Repeat("../", strings.Count(from, "/"))
	out := make([]string, len(hrefs))
	for i, h := range hrefs {
		out[i] = prefix + h
	}
	return out
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}
	// Render into a buffer so a failing template never leaves half a file.
	// html/template escapes a literal <?xml ...?>, so the declaration is
	// written here and kept out of the templates.
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateRender, name, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	src, err := r.loader.LoadTemplate(name)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(r.funcs).Parse(stripXMLDeclaration(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

// stripXMLDeclaration drops a leading XML declaration from a template
// source. Project overrides copied from a rendered file often carry one.
func stripXMLDeclaration(src string) string {
	trimmed := strings.TrimLeft(src, "\ufeff \t\r\n")
	if !strings.HasPrefix(trimmed, "<?xml") {
		return src
	}
	end := strings.Index(trimmed, "?>")
	if end == -1 {
		return src
	}
	return strings.TrimLeft(trimmed[end+len("?>"):], "\r\n")
}

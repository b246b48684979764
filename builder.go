package md2epub

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2epub/internal/archive"
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/fileutil"
	"github.com/alnah/go-md2epub/internal/pipeline"
	"github.com/alnah/go-md2epub/internal/staging"
)

// Config is the book configuration. See LoadConfig.
type Config = config.Config

// Edition is the resolved chapter list and cover of one version.
type Edition = config.Edition

// Entry describes one file written to the archive.
type Entry = archive.Entry

// Builder assembles EPUB files for one project layout.
type Builder struct {
	layout Layout
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConfig uses cfg instead of loading the project's config file.
func WithConfig(cfg *Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithClock sets the build clock, used for "auto" dates and the
// modification timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder. Empty layout fields take their defaults
// relative to layout.Dir.
func NewBuilder(layout Layout, opts ...Option) *Builder {
	b := &Builder{
		layout: layout.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Layout returns the resolved project layout.
func (b *Builder) Layout() Layout {
	return b.layout
}

// BuildOptions selects what to build.
type BuildOptions struct {
	Version string // empty builds DefaultVersion
	Clean   bool   // remove the scratch tree after archiving
}

// BuildResult describes a finished build.
type BuildResult struct {
	Output   string // path of the written .epub
	Version  string
	Chapters []string
	Entries  []Entry
	Duration time.Duration
}

// Size returns the uncompressed size of all archive entries.
func (r *BuildResult) Size() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.Size
	}
	return total
}

// MissingContentError lists declared content files absent from the
// source tree. It matches ErrMissingContent with errors.Is.
type MissingContentError struct {
	SourceDir string
	Missing   []string
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("%v in %s: %s", ErrMissingContent, e.SourceDir, strings.Join(e.Missing, ", "))
}

func (e *MissingContentError) Unwrap() error {
	return ErrMissingContent
}

// LoadConfig loads the config of layout: layout.ConfigPath when set,
// otherwise the first config file found in layout.Dir.
func LoadConfig(layout Layout) (*Config, error) {
	layout = layout.withDefaults()
	p := layout.ConfigPath
	if p == "" {
		found, err := config.FindConfig(layout.Dir)
		if err != nil {
			return nil, err
		}
		p = found
	}
	return config.LoadConfig(p)
}

// Build runs the whole pipeline for one version:
//
//  1. load the config and resolve the version
//  2. check that every declared content file exists
//  3. lock and reset the scratch tree, copy container files and src
//  4. convert chapters
//  5. render content.opf and nav.xhtml
//  6. archive the scratch tree into the output file
//
// If a content file is missing, Build returns a *MissingContentError before
// the scratch tree or the output archive are touched.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (result *BuildResult, err error) {
	start := b.now()

	cfg := b.cfg
	if cfg == nil {
		if cfg, err = LoadConfig(b.layout); err != nil {
			return nil, err
		}
	}

	book, err := NewBookContext(cfg, b.layout, opts.Version, start)
	if err != nil {
		return nil, err
	}
	version := book.Edition.Version
	output := filepath.Join(b.layout.OutputDir, AppendVersion(cfg.EPUBFileName, version))
	log := b.logger.With("version", version)

	if err := CheckContents(b.layout.SourceDir, book.Contents()); err != nil {
		return nil, err
	}
	if len(book.Contents()) == 0 && len(book.Pages) == 0 {
		return nil, fmt.Errorf("%w: nothing to put in the spine", ErrNoContent)
	}

	converter, err := pipeline.NewConverter(pipeline.ConverterOptions{
		RawHTML:        cfg.Markdown.AllowRawHTML(),
		HardWraps:      cfg.Markdown.HardWraps,
		HighlightStyle: cfg.Markdown.HighlightStyle,
	})
	if err != nil {
		return nil, err
	}

	loader, err := assets.NewAssetResolver(b.layout.TemplateDir, b.layout.AssetDir)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	area, err := staging.Acquire(b.layout.BuildDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := area.Release(); relErr != nil && err == nil {
			err = relErr
		}
	}()

	log.Info("staging", "dir", area.Root())
	if err := area.Reset(); err != nil {
		return nil, err
	}
	if err := area.CopyContainerFiles(loader); err != nil {
		return nil, err
	}
	copied, err := area.CopySourceTree(b.layout.SourceDir)
	if err != nil {
		return nil, err
	}
	log.Debug("copied static content", "files", len(copied))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titles := TitleIndex{}
	renderer := NewRenderer(loader, titles, book.MediaTypes)

	w := &chapterWriter{
		area:      area,
		converter: converter,
		renderer:  renderer,
		titles:    titles,
		book:      book,
		src:       b.layout.SourceDir,
		logger:    log,
	}
	for _, chapter := range book.Contents() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.write(ctx, chapter); err != nil {
			return nil, err
		}
	}

	if err := b.renderDocument(area, PackageDocument, func(buf *bytes.Buffer) error {
		return renderer.RenderPackage(buf, book)
	}); err != nil {
		return nil, err
	}
	if cfg.NavEnabled() {
		if err := b.renderDocument(area, NavDocument, func(buf *bytes.Buffer) error {
			return renderer.RenderNav(buf, book)
		}); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("archiving", "output", output)
	entries, err := archive.Create(area.Root(), output, log)
	if err != nil {
		return nil, err
	}

	if opts.Clean {
		if err := area.Remove(); err != nil {
			return nil, fmt.Errorf("removing scratch tree: %w", err)
		}
	}

	result = &BuildResult{
		Output:   output,
		Version:  version,
		Chapters: book.Contents(),
		Entries:  entries,
		Duration: b.now().Sub(start),
	}
	log.Info("built", "output", output, "entries", len(entries), "duration", result.Duration)
	return result, nil
}

func (b *Builder) renderDocument(area *staging.Area, name string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return area.WriteContent(name, buf.Bytes())
}

// Clean removes the scratch tree and its lock file.
// Fails with ErrBuildLocked while a build is running.
func (b *Builder) Clean() error {
	return staging.Clean(b.layout.BuildDir)
}

// CheckContents returns a *MissingContentError naming every entry of
// contents that is not a regular file under src.
func CheckContents(src string, contents []string) error {
	var missing []string
	for _, c := range contents {
		if !fileutil.FileExists(filepath.Join(src, filepath.FromSlash(c))) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingContentError{SourceDir: src, Missing: missing}
	}
	return nil
}

// chapterWriter converts chapters into the scratch tree.
type chapterWriter struct {
	area      *staging.Area
	converter *pipeline.Converter
	renderer  *Renderer
	titles    TitleIndex
	book      *BookContext
	src       string
	logger    *slog.Logger
}

// write converts one chapter to OEBPS/<chapter with .md swapped for .xhtml>.
// Entries that are not Markdown are copied as they are.
func (w *chapterWriter) write(ctx context.Context, chapter string) error {
	srcPath := filepath.Join(w.src, filepath.FromSlash(chapter))

	if path.Ext(chapter) != ".md" {
		w.logger.Debug("copying page", "file", chapter)
		if err := fileutil.CopyFile(srcPath, w.area.ContentPath(chapter)); err != nil {
			return fmt.Errorf("copying %s: %w", chapter, err)
		}
		return nil
	}

	source, err := os.ReadFile(srcPath) // #nosec G304 -- path comes from the book config
	if err != nil {
		return fmt.Errorf("reading %s: %w", chapter, err)
	}

	doc, err := w.converter.Convert(ctx, string(source))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrChapterConvert, chapter, err)
	}
	w.titles[chapter] = doc.Title

	var buf bytes.Buffer
	err = w.renderer.RenderChapter(&buf, ChapterPage{
		Path:        chapter,
		Title:       w.titles.Lookup(chapter),
		Body:        doc.Body,
		Language:    w.book.Language,
		Stylesheets: w.book.Stylesheets,
		Meta:        doc.Meta,
	})
	if err != nil {
		return err
	}

	target := MDExtToXHTML(chapter)
	w.logger.Debug("converted chapter", "file", chapter, "target", target, "title", doc.Title)
	return w.area.WriteContent(target, buf.Bytes())
}

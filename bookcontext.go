package md2epub

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/dateutil"
	"github.com/alnah/go-md2epub/internal/fileutil"
)

// DefaultLanguage is used when the config sets none.
const DefaultLanguage = "en"

// coverSuffix marks images that are always left out of the image list.
const coverSuffix = "cover.jpg"

// BookContext is the data templates are rendered from: the config plus
// the lists derived from the source tree. Build it once per build and
// treat it as read-only.
type BookContext struct {
	Config  *config.Config
	Edition config.Edition

	// Manifest hrefs, relative to OEBPS and slash-separated.
	Images      []string
	Fonts       []string
	Stylesheets []string
	Pages       []string

	Identifier string
	Language   string
	Date       string
	Modified   string

	MediaTypes MediaTypes
}

// NewBookContext resolves version against cfg and scans the source tree of
// layout. now is the build clock, used for "auto" dates and the
// modification timestamp.
func NewBookContext(cfg *config.Config, layout Layout, version string, now time.Time) (*BookContext, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	layout = layout.withDefaults()

	edition, err := cfg.Edition(version)
	if err != nil {
		return nil, err
	}
	if edition.Implicit {
		contents, err := scanChapters(layout.SourceDir)
		if err != nil {
			return nil, err
		}
		edition.Contents = contents
	}
	edition.Contents = toSlash(edition.Contents)
	edition.CoverImage = filepath.ToSlash(edition.CoverImage)

	images, err := listAssets(layout.SourceDir, ImagesDirName)
	if err != nil {
		return nil, err
	}
	fonts, err := listAssets(layout.SourceDir, FontsDirName)
	if err != nil {
		return nil, err
	}
	stylesheets, pages, err := listTopLevel(layout.SourceDir)
	if err != nil {
		return nil, err
	}

	date, err := dateutil.ResolveDate(cfg.Date, now)
	if err != nil {
		return nil, err
	}

	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = DefaultLanguage
	}

	media := MediaTypes{}
	for _, href := range append(append([]string{}, images...), fonts...) {
		media.detect(layout.SourceDir, href)
	}
	if edition.CoverImage != "" {
		media.detect(layout.SourceDir, edition.CoverImage)
	}

	return &BookContext{
		Config:      cfg,
		Edition:     edition,
		Images:      ExcludeCover(images, edition.CoverImage),
		Fonts:       fonts,
		Stylesheets: stylesheets,
		Pages:       withoutContents(pages, edition.Contents),
		Identifier:  BookIdentifier(cfg, edition.Version),
		Language:    language,
		Date:        date,
		Modified:    dateutil.Modified(now),
		MediaTypes:  media,
	}, nil
}

// Contents returns the chapter list of the resolved edition.
func (b *BookContext) Contents() []string {
	return b.Edition.Contents
}

// TemplateData returns every raw config key plus the derived keys.
// Derived keys win on collision.
func (b *BookContext) TemplateData() map[string]any {
	data := make(map[string]any, len(b.Config.Raw)+16)
	for k, v := range b.Config.Raw {
		data[k] = v
	}

	data["title"] = b.Config.Title
	data["author"] = b.Config.Author
	data["publisher"] = b.Config.Publisher
	data["rights"] = b.Config.Rights
	data["description"] = b.Config.Description
	data["epub_file_name"] = b.Config.EPUBFileName

	data["images"] = b.Images
	data["fonts"] = b.Fonts
	data["stylesheets"] = b.Stylesheets
	data["pages"] = b.Pages
	data["contents"] = b.Edition.Contents
	data["cover_image"] = b.Edition.CoverImage
	data["version"] = b.Edition.Version
	data["identifier"] = b.Identifier
	data["language"] = b.Language
	data["date"] = b.Date
	data["modified"] = b.Modified
	data["nav"] = b.Config.NavEnabled()
	return data
}

// ExcludeCover drops images whose name ends in "cover.jpg" and the
// selected cover image itself. The cover gets its own manifest item.
func ExcludeCover(images []string, cover string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if strings.HasSuffix(img, coverSuffix) || (cover != "" && img == cover) {
			continue
		}
		out = append(out, img)
	}
	return out
}

// BookIdentifier returns the configured identifier, or a name-based UUID
// derived from the title, file name and version. The same book always gets
// the same identifier.
func BookIdentifier(cfg *config.Config, version string) string {
	if id := strings.TrimSpace(cfg.Identifier); id != "" {
		return id
	}
	if version == "" {
		version = DefaultVersion
	}
	name := cfg.Title + "/" + cfg.EPUBFileName + "/" + version
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// scanChapters lists the Markdown files directly inside src, sorted.
func scanChapters(src string) ([]string, error) {
	files, err := fileutil.ListFiles(src)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", src, err)
	}
	var chapters []string
	for _, f := range files {
		if filepath.Ext(f) == ".md" {
			chapters = append(chapters, filepath.Base(f))
		}
	}
	return chapters, nil
}

// listAssets lists the files of src/dir as OEBPS hrefs: the source
// directory segment is dropped, so src/images/a.jpg becomes images/a.jpg.
func listAssets(src, dir string) ([]string, error) {
	files, err := fileutil.ListFiles(filepath.Join(src, dir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	hrefs := make([]string, 0, len(files))
	for _, f := range files {
		hrefs = append(hrefs, path.Join(dir, filepath.Base(f)))
	}
	return hrefs, nil
}

// listTopLevel returns the *.css and *.xhtml files directly inside src.
func listTopLevel(src string) (stylesheets, pages []string, err error) {
	files, err := fileutil.ListFiles(src)
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s: %w", src, err)
	}
	for _, f := range files {
		name := filepath.Base(f)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".css":
			stylesheets = append(stylesheets, name)
		case ".xhtml":
			pages = append(pages, name)
		}
	}
	return stylesheets, pages, nil
}

// withoutContents drops the pages that are also listed as contents, so
// each file appears once in the manifest and the spine.
func withoutContents(pages, contents []string) []string {
	listed := make(map[string]bool, len(contents))
	for _, c := range contents {
		listed[c] = true
	}
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		if !listed[p] {
			out = append(out, p)
		}
	}
	return out
}

func toSlash(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}

// ---------------------------------------------------------------------------
// Template lookups
// ---------------------------------------------------------------------------

// TitleIndex maps chapter paths (as listed in contents) to their titles.
type TitleIndex map[string]string

// Lookup returns the title recorded for chapter, or its file name without
// extension when none was found.
func (t TitleIndex) Lookup(chapter string) string {
	if title := t[chapter]; title != "" {
		return title
	}
	base := path.Base(filepath.ToSlash(chapter))
	return strings.TrimSuffix(base, path.Ext(base))
}

// MediaTypes maps manifest hrefs to media types.
type MediaTypes map[string]string

// extensionTypes covers formats content sniffing cannot tell apart from
// plain text, and files that could not be read.
var extensionTypes = map[string]string{
	".css":   "text/css",
	".xhtml": "application/xhtml+xml",
	".html":  "application/xhtml+xml",
	".svg":   "image/svg+xml",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".png":   "image/png",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".js":    "application/javascript",
	".ncx":   "application/x-dtbncx+xml",
	".smil":  "application/smil+xml",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
}

// DefaultMediaType is reported for unknown files.
const DefaultMediaType = "application/octet-stream"

// Lookup returns the media type of href: the detected type if the file was
// scanned, otherwise a guess from its extension.
func (m MediaTypes) Lookup(href string) string {
	if mt := m[href]; mt != "" {
		return mt
	}
	return mediaTypeByExtension(href)
}

// detect sniffs the file behind href and records its media type.
func (m MediaTypes) detect(src, href string) {
	p := filepath.Join(src, filepath.FromSlash(href))
	if _, err := os.Stat(p); err != nil {
		return
	}
	detected, err := mimetype.DetectFile(p)
	if err != nil {
		return
	}
	mt, _, _ := strings.Cut(detected.String(), ";")
	mt = strings.TrimSpace(mt)
	if mt == "" || mt == DefaultMediaType || strings.HasPrefix(mt, "text/plain") {
		return
	}
	m[href] = mt
}

func mediaTypeByExtension(href string) string {
	if mt, ok := extensionTypes[strings.ToLower(path.Ext(href))]; ok {
		return mt
	}
	return DefaultMediaType
}

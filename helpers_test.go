package md2epub

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2epub/internal/epub"
)

// fixedNow is the build clock used by tests that check dates.
var fixedNow = time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)

// pngHeader is enough of a PNG file for content sniffing.
const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"

// baseConfig declares two chapters with metadata titles.
const baseConfig = `epub_file_name: example.epub
title: Example Book
author: Jane Doe
language: fr
order:
  - chapter01.md
  - chapter02.md
`

// writeProject creates a project directory with a config and the given
// files, keyed by slash-separated path relative to the project.
func writeProject(t *testing.T, cfg string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if cfg != "" {
		writeTestFile(t, filepath.Join(dir, "config.yml"), cfg)
	}
	for name, content := range files {
		writeTestFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
	}
	return dir
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// sampleFiles is a small book: two chapters, images including a cover,
// a font, a stylesheet and a pre-written page.
func sampleFiles() map[string]string {
	return map[string]string{
		"src/chapter01.md":      "---\ntitle: First Steps\n---\n\n# Ignored Heading\n\nHello *world*.\n",
		"src/chapter02.md":      "# Second Chapter\n\nSee [the start](chapter01.md#top).\n",
		"src/images/a.png":      pngHeader,
		"src/images/cover.jpg":  "\xff\xd8\xff\xe0\x00\x10JFIF\x00",
		"src/images/.DS_Store":  "junk",
		"src/fonts/serif.woff2": "wOF2",
		"src/style.css":         "body { margin: 0; }\n",
		"src/title.xhtml":       "<html xmlns=\"http://www.w3.org/1999/xhtml\"><body/></html>\n",
	}
}

// assertWellFormedArchive strictly parses every .opf and .xhtml entry of
// the archive at path and checks that each starts with an XML declaration.
func assertWellFormedArchive(t *testing.T, path string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer zr.Close()

	checked := 0
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".opf") && !strings.HasSuffix(f.Name, ".xhtml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		assertWellFormed(t, f.Name, data)
		checked++
	}
	if checked == 0 {
		t.Errorf("%s has no .opf or .xhtml entries", path)
	}
}

// assertWellFormed checks one rendered XML document.
func assertWellFormed(t *testing.T, name string, data []byte) {
	t.Helper()
	if err := epub.WellFormed(data); err != nil {
		t.Errorf("%s: %v\n%s", name, err, data)
	}
}

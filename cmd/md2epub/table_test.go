package main

import (
	"archive/zip"
	"strings"
	"testing"
	"time"

	md2epub "github.com/alnah/go-md2epub"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := renderTable([]string{"Name", "Size"}, [][]string{{"a", "1 kB"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"Name", "Size", "1 kB", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "NAME") {
		t.Errorf("headers should keep their case\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("no headers should render nothing")
	}
}

func TestEntryTable(t *testing.T) {
	t.Parallel()

	entries := []md2epub.EntryInfo{
		{Name: "mimetype", Method: zip.Store, CompressedSize: 20, UncompressedSize: 20},
		{Name: "OEBPS/content.opf", Method: zip.Deflate, CompressedSize: 400, UncompressedSize: 1500,
			Modified: time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)},
	}

	out := entryTable(entries, false)
	for _, want := range []string{"mimetype", "stored", "deflated", "1.5 kB", "400 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q\n%s", want, out)
		}
	}
	if strings.Contains(strings.ToUpper(out), "MODIFIED") {
		t.Error("Modified column should only appear when verbose")
	}
	verbose := entryTable(entries, true)
	for _, want := range []string{"Modified", "2024-03-09 14:30:05"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("verbose table missing %q\n%s", want, verbose)
		}
	}
}

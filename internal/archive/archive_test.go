package archive

// Notes:
// - Archives are read back with archive/zip to check the container rules
//   independently of the Writer's own bookkeeping
// - Walk order is directory-entry order, which os.ReadDir sorts by name;
//   tests compare sorted sets anyway so they do not depend on that detail

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// stageTree builds a minimal scratch tree and returns its root.
func stageTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "temp")
	writeFile(t, filepath.Join(root, "mimetype"), "application/epub+zip")
	writeFile(t, filepath.Join(root, "META-INF", "container.xml"), "<container/>")
	writeFile(t, filepath.Join(root, "OEBPS", "content.opf"), "<package/>")
	writeFile(t, filepath.Join(root, "OEBPS", "chapter01.xhtml"), "<html/>")
	writeFile(t, filepath.Join(root, "OEBPS", "images", "a.jpg"), "jpg")
	writeFile(t, filepath.Join(root, "OEBPS", "images", ".DS_Store"), "junk")
	return root
}

// ---------------------------------------------------------------------------
// TestWalk - File Tree Visitor
// ---------------------------------------------------------------------------

func TestWalk(t *testing.T) {
	t.Parallel()

	root := stageTree(t)

	var got []string
	err := Walk(filepath.Join(root, "OEBPS"), func(path string, entry fs.DirEntry) error {
		rel, _ := filepath.Rel(root, path)
		got = append(got, filepath.ToSlash(rel))
		if entry.IsDir() {
			t.Errorf("visit called for directory %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	sort.Strings(got)

	want := []string{"OEBPS/chapter01.xhtml", "OEBPS/content.opf", "OEBPS/images/a.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() visited %v, want %v", got, want)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	root := stageTree(t)
	stop := errors.New("stop")
	calls := 0

	err := Walk(root, func(string, fs.DirEntry) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("visit called %d times, want 1", calls)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	t.Parallel()

	err := Walk(filepath.Join(t.TempDir(), "missing"), func(string, fs.DirEntry) error { return nil })
	if !os.IsNotExist(err) {
		t.Errorf("Walk() error = %v, want not-exist", err)
	}
}

// ---------------------------------------------------------------------------
// TestCreate - Container Layout
// ---------------------------------------------------------------------------

func TestCreate(t *testing.T) {
	t.Parallel()

	root := stageTree(t)
	dest := filepath.Join(t.TempDir(), "out", "book.epub")

	entries, err := Create(root, dest, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("zip.OpenReader() error = %v", err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		t.Fatal("archive is empty")
	}

	first := zr.File[0]
	if first.Name != "mimetype" {
		t.Fatalf("first entry = %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype method = %d, want Store", first.Method)
	}
	rc, err := first.Open()
	if err != nil {
		t.Fatalf("opening mimetype: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "application/epub+zip" {
		t.Errorf("mimetype content = %q", data)
	}

	var names []string
	for _, f := range zr.File[1:] {
		names = append(names, f.Name)
		if f.Method != zip.Deflate {
			t.Errorf("%s method = %d, want Deflate", f.Name, f.Method)
		}
	}
	sort.Strings(names)
	want := []string{
		"META-INF/container.xml",
		"OEBPS/chapter01.xhtml",
		"OEBPS/content.opf",
		"OEBPS/images/a.jpg",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}

	if len(entries) != len(zr.File) {
		t.Errorf("Create() reported %d entries, archive has %d", len(entries), len(zr.File))
	}
}

func TestCreate_NoTemporaryFilesLeft(t *testing.T) {
	t.Parallel()

	root := stageTree(t)
	outDir := t.TempDir()

	if _, err := Create(root, filepath.Join(outDir, "book.epub"), nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dirEntries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirEntries) != 1 || dirEntries[0].Name() != "book.epub" {
		var names []string
		for _, e := range dirEntries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir contains %v, want only book.epub", names)
	}
}

func TestCreate_FailureKeepsPreviousArchive(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "temp")
	writeFile(t, filepath.Join(root, "OEBPS", "content.opf"), "<package/>")
	// no mimetype: the build must fail before replacing dest

	outDir := t.TempDir()
	dest := filepath.Join(outDir, "book.epub")
	writeFile(t, dest, "previous")

	_, err := Create(root, dest, nil)
	if !errors.Is(err, ErrMimetypeMissing) {
		t.Fatalf("Create() error = %v, want ErrMimetypeMissing", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "previous" {
		t.Errorf("previous archive changed: %q, %v", got, err)
	}
	dirEntries, _ := os.ReadDir(outDir)
	if len(dirEntries) != 1 {
		t.Errorf("temporary file left behind: %d entries in output dir", len(dirEntries))
	}
}

// ---------------------------------------------------------------------------
// TestWriter - Ordering Rules
// ---------------------------------------------------------------------------

func TestWriter_TreeBeforeMimetype(t *testing.T) {
	t.Parallel()

	root := stageTree(t)
	w := NewWriter(io.Discard, root, nil)

	if err := w.AddTree(filepath.Join(root, "OEBPS")); !errors.Is(err, ErrMimetypeNotFirst) {
		t.Errorf("AddTree() before mimetype error = %v, want ErrMimetypeNotFirst", err)
	}
	if err := w.WriteMimetype(filepath.Join(root, "mimetype")); err != nil {
		t.Fatalf("WriteMimetype() error = %v", err)
	}
	if err := w.WriteMimetype(filepath.Join(root, "mimetype")); !errors.Is(err, ErrMimetypeNotFirst) {
		t.Errorf("second WriteMimetype() error = %v, want ErrMimetypeNotFirst", err)
	}
	_ = w.Close()
}

// ---------------------------------------------------------------------------
// TestEntryName - Prefix Stripping
// ---------------------------------------------------------------------------

func TestEntryName(t *testing.T) {
	t.Parallel()

	root := filepath.Join("build", "temp")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "nested file", path: filepath.Join(root, "OEBPS", "images", "a.jpg"), want: "OEBPS/images/a.jpg"},
		{name: "top level", path: filepath.Join(root, "mimetype"), want: "mimetype"},
		{name: "decomposed name is composed", path: filepath.Join(root, "OEBPS", "cafe\u0301.xhtml"), want: "OEBPS/caf\u00e9.xhtml"},
		{name: "root itself", path: root, wantErr: true},
		{name: "outside root", path: filepath.Join("build", "other", "x"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := EntryName(root, tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideRoot) {
					t.Errorf("EntryName() error = %v, want ErrOutsideRoot", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EntryName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EntryName() = %q, want %q", got, tt.want)
			}
		})
	}
}

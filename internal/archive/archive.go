// Package archive writes a staged scratch tree into an EPUB container.
//
// The container rules are fixed: the "mimetype" entry comes first and is
// stored uncompressed, every other entry is deflated at best compression
// under its path relative to the scratch root.
package archive

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// Sentinel errors for archive operations.
var (
	ErrMimetypeNotFirst = errors.New("mimetype must be the first entry")
	ErrMimetypeMissing  = errors.New("mimetype file missing from build directory")
	ErrOutsideRoot      = errors.New("file is outside the archive root")
)

// MimetypeName is the name of the mandatory first entry.
const MimetypeName = "mimetype"

// Entry describes one file written to the archive.
type Entry struct {
	Name   string
	Size   int64
	Method uint16
}

// Writer adds files from a scratch tree to a ZIP stream.
type Writer struct {
	zw      *zip.Writer
	root    string
	entries []Entry
	logger  *slog.Logger
}

// NewWriter creates a Writer over w. Entry names are computed relative to
// root. A nil logger discards output.
func NewWriter(w io.Writer, root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Writer{zw: zw, root: filepath.Clean(root), logger: logger}
}

// WriteMimetype writes path as the stored "mimetype" entry.
// It must be called before any other entry is added.
func (w *Writer) WriteMimetype(path string) error {
	if len(w.entries) > 0 {
		return ErrMimetypeNotFirst
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path inside the build directory
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMimetypeMissing, path)
		}
		return err
	}

	header := &zip.FileHeader{Name: MimetypeName, Method: zip.Store}
	header.SetMode(fileutil.FilePerm)
	fw, err := w.zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return err
	}
	w.record(Entry{Name: MimetypeName, Size: int64(len(data)), Method: zip.Store})
	return nil
}

// AddTree walks dir and deflates every file into the archive.
func (w *Writer) AddTree(dir string) error {
	if len(w.entries) == 0 {
		return ErrMimetypeNotFirst
	}
	w.logger.Debug("diving into", "dir", dir)
	return Walk(dir, func(path string, _ fs.DirEntry) error {
		return w.addFile(path)
	})
}

// addFile deflates one file under its name relative to the root.
func (w *Writer) addFile(path string) error {
	name, err := EntryName(w.root, path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	fw, err := w.zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path) // #nosec G304 -- path inside the build directory
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(fw, f)
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.record(Entry{Name: name, Size: n, Method: zip.Deflate})
	return nil
}

func (w *Writer) record(e Entry) {
	w.logger.Debug("writing", "entry", e.Name, "size", e.Size)
	w.entries = append(w.entries, e)
}

// Entries returns the entries written so far, in archive order.
func (w *Writer) Entries() []Entry {
	return append([]Entry(nil), w.entries...)
}

// Close finishes the ZIP central directory. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// EntryName returns path relative to root as a ZIP entry name: forward
// slashes, NFC-normalized. Paths outside root are rejected.
func EntryName(root, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return norm.NFC.String(filepath.ToSlash(rel)), nil
}

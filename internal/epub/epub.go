// Package epub reads an EPUB archive back and checks it against the
// container rules the builder relies on.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"
)

// Well-known names inside an EPUB archive.
const (
	MimetypeName    = "mimetype"
	MimetypeContent = "application/epub+zip"
	ContainerName   = "META-INF/container.xml"
)

// maxXMLSize bounds the XML documents read into memory for checks.
const maxXMLSize = 10 << 20

// Sentinel errors for reading and verification.
var (
	ErrOpen         = errors.New("cannot open epub")
	ErrNoContainer  = errors.New("container.xml missing")
	ErrNoRootfile   = errors.New("no rootfile in container.xml")
	ErrBadXML       = errors.New("malformed XML")
	ErrVerification = errors.New("epub verification failed")
)

// EntryInfo describes one archive entry.
type EntryInfo struct {
	Name             string
	Method           uint16
	CompressedSize   uint64
	UncompressedSize uint64
	Modified         time.Time
}

// Book is an opened EPUB archive.
// Container and Package are nil when the corresponding document is missing
// or malformed; Verify reports why.
type Book struct {
	Path      string
	Container *Container
	Package   *Package
	// PackagePath is the archive path of the package document.
	PackagePath string

	zr      *zip.ReadCloser
	files   map[string]*zip.File
	readErr []string
}

// Open reads the archive at p and parses its container and package
// documents. Only an unreadable ZIP is an error; structural problems are
// collected for Verify.
func Open(p string) (*Book, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, p, err)
	}

	b := &Book{Path: p, zr: zr, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		b.files[f.Name] = f
	}

	if err := b.readContainer(); err != nil {
		b.readErr = append(b.readErr, err.Error())
		return b, nil
	}
	if err := b.readPackage(); err != nil {
		b.readErr = append(b.readErr, err.Error())
	}
	return b, nil
}

// Close releases the underlying file.
func (b *Book) Close() error {
	return b.zr.Close()
}

// Entries lists the archive entries in archive order.
func (b *Book) Entries() []EntryInfo {
	entries := make([]EntryInfo, 0, len(b.zr.File))
	for _, f := range b.zr.File {
		entries = append(entries, EntryInfo{
			Name:             f.Name,
			Method:           f.Method,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Modified:         f.Modified,
		})
	}
	return entries
}

// Has reports whether the archive contains name.
func (b *Book) Has(name string) bool {
	_, ok := b.files[name]
	return ok
}

// ReadFile returns the contents of an archive entry.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNotInArchive)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxXMLSize))
}

var errNotInArchive = errors.New("not in archive")

func (b *Book) readContainer() error {
	data, err := b.ReadFile(ContainerName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoContainer, err)
	}
	var c Container
	if err := xml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadXML, ContainerName, err)
	}
	if err := WellFormed(data); err != nil {
		b.readErr = append(b.readErr, fmt.Sprintf("%s: %v", ContainerName, err))
	}
	b.Container = &c
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return ErrNoRootfile
	}
	b.PackagePath = c.Rootfiles[0].FullPath
	return nil
}

func (b *Book) readPackage() error {
	data, err := b.ReadFile(b.PackagePath)
	if err != nil {
		return fmt.Errorf("rootfile %s: %w", b.PackagePath, err)
	}
	var pkg Package
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadXML, b.PackagePath, err)
	}
	if err := WellFormed(data); err != nil {
		b.readErr = append(b.readErr, fmt.Sprintf("%s: %v", b.PackagePath, err))
	}
	b.Package = &pkg
	return nil
}

// ResolveHref maps a manifest href to its archive path. Hrefs are relative
// to the package document and may be percent-encoded.
func (b *Book) ResolveHref(href string) string {
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	return path.Join(path.Dir(b.PackagePath), href)
}

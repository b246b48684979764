package archive

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// VisitFunc is called for every regular file found by Walk.
// path is root joined with the file's relative location.
type VisitFunc func(path string, entry fs.DirEntry) error

// Walk visits the regular files under root recursively, in directory-entry
// order, skipping OS artifact files. Symlinks and other special files are
// ignored. The first error returned by visit stops the walk.
func Walk(root string, visit VisitFunc) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if fileutil.IsIgnored(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		switch {
		case entry.IsDir():
			if err := Walk(path, visit); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := visit(path, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

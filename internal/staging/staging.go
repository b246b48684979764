// Package staging owns the scratch tree a build assembles before archiving.
//
// The tree is recreated from nothing on every build:
//
//	temp/
//	├── mimetype
//	├── META-INF/container.xml
//	└── OEBPS/          content files, images, fonts, stylesheets
//
// A lock file next to the tree keeps two builds from sharing it.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/fileutil"
)

// Directory names inside the scratch tree.
const (
	MetaInfDir = "META-INF"
	ContentDir = "OEBPS"
)

// Sentinel errors for staging operations.
var (
	ErrBuildLocked = errors.New("build directory is locked by another build")
	ErrNotAcquired = errors.New("build directory lock not acquired")
	ErrUnsafeDir   = errors.New("refusing to use build directory")
)

// Area is an exclusively held scratch tree.
type Area struct {
	root string
	lock *flock.Flock
}

// LockPath returns the lock file guarding root.
func LockPath(root string) string {
	return filepath.Clean(root) + ".lock"
}

// Acquire takes the lock for root without blocking.
// Returns ErrBuildLocked if another process holds it.
func Acquire(root string) (*Area, error) {
	root = filepath.Clean(root)
	if root == "." || root == string(filepath.Separator) || root == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsafeDir, root)
	}
	if err := os.MkdirAll(filepath.Dir(root), fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("creating parent of %s: %w", root, err)
	}

	lock := flock.New(LockPath(root))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", root, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrBuildLocked, LockPath(root))
	}
	return &Area{root: root, lock: lock}, nil
}

// Root returns the scratch tree path.
func (a *Area) Root() string { return a.root }

// ContentPath joins rel (slash-separated) onto the OEBPS directory.
func (a *Area) ContentPath(rel string) string {
	return filepath.Join(a.root, ContentDir, filepath.FromSlash(rel))
}

// Release drops the lock. The lock file itself is left in place;
// removing it would race with a build waiting to take it.
func (a *Area) Release() error {
	if a == nil || a.lock == nil {
		return nil
	}
	return a.lock.Unlock()
}

// Reset deletes the scratch tree if present and recreates the empty
// META-INF and OEBPS directories.
func (a *Area) Reset() error {
	if err := a.held(); err != nil {
		return err
	}
	if err := os.RemoveAll(a.root); err != nil {
		return fmt.Errorf("removing %s: %w", a.root, err)
	}
	for _, dir := range []string{MetaInfDir, ContentDir} {
		if err := os.MkdirAll(filepath.Join(a.root, dir), fileutil.DirPerm); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// CopyContainerFiles writes mimetype and META-INF/container.xml from loader.
func (a *Area) CopyContainerFiles(loader assets.AssetLoader) error {
	if err := a.held(); err != nil {
		return err
	}
	for _, name := range []string{assets.MimetypeFile, assets.ContainerFile} {
		data, err := loader.LoadStatic(name)
		if err != nil {
			return err
		}
		if err := a.writeFile(filepath.Join(a.root, filepath.FromSlash(name)), data); err != nil {
			return err
		}
	}
	return nil
}

// CopySourceTree copies static content from src into OEBPS: every
// top-level directory recursively, plus top-level .css and .xhtml files.
// Markdown sources and OS artifacts are skipped. Returns the copied paths
// relative to src, slash-separated.
func (a *Area) CopySourceTree(src string) ([]string, error) {
	if err := a.held(); err != nil {
		return nil, err
	}
	if !fileutil.DirExists(src) {
		return nil, nil
	}

	skip := func(rel string, d fs.DirEntry) bool {
		if fileutil.IsIgnored(d.Name()) {
			return true
		}
		if d.IsDir() {
			return false
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".md" {
			return true
		}
		if !strings.ContainsRune(rel, filepath.Separator) {
			return ext != ".css" && ext != ".xhtml"
		}
		return false
	}

	copied, err := fileutil.CopyTree(src, filepath.Join(a.root, ContentDir), skip)
	for i := range copied {
		copied[i] = filepath.ToSlash(copied[i])
	}
	if err != nil {
		return copied, fmt.Errorf("copying %s: %w", src, err)
	}
	return copied, nil
}

// WriteContent writes data to OEBPS/rel, creating parent directories.
func (a *Area) WriteContent(rel string, data []byte) error {
	if err := a.held(); err != nil {
		return err
	}
	return a.writeFile(a.ContentPath(rel), data)
}

// Remove deletes the scratch tree.
func (a *Area) Remove() error {
	if err := a.held(); err != nil {
		return err
	}
	return os.RemoveAll(a.root)
}

func (a *Area) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPerm); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, fileutil.FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (a *Area) held() error {
	if a == nil || a.lock == nil || !a.lock.Locked() {
		return ErrNotAcquired
	}
	return nil
}

// Clean removes the scratch tree and its lock file. It takes the lock first,
// so it fails with ErrBuildLocked while a build is running.
func Clean(root string) error {
	area, err := Acquire(root)
	if err != nil {
		return err
	}
	if err := area.Remove(); err != nil {
		_ = area.Release()
		return fmt.Errorf("removing %s: %w", root, err)
	}
	if err := area.Release(); err != nil {
		return err
	}
	if err := os.Remove(LockPath(root)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

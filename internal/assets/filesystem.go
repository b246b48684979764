package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from the project's template and asset
// directories. Either directory may be empty, in which case every lookup of
// that kind reports not found.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	templateDir string
	staticDir   string
}

// NewFilesystemLoader creates a FilesystemLoader.
// Returns ErrInvalidBasePath if a non-empty path is not a readable directory.
func NewFilesystemLoader(templateDir, staticDir string) (*FilesystemLoader, error) {
	var err error
	l := &FilesystemLoader{}
	if l.templateDir, err = resolveBase(templateDir); err != nil {
		return nil, err
	}
	if l.staticDir, err = resolveBase(staticDir); err != nil {
		return nil, err
	}
	return l, nil
}

// resolveBase cleans, absolutizes, and checks a base directory.
func resolveBase(basePath string) (string, error) {
	if basePath == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path for consistent containment checks
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return "", fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return absPath, nil
}

// LoadTemplate loads {templateDir}/{name}.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	if f.templateDir == "" {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	content, err := readContained(f.templateDir, name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}
	return string(content), nil
}

// LoadStatic loads {staticDir}/{name}.
func (f *FilesystemLoader) LoadStatic(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	if f.staticDir == "" {
		return nil, fmt.Errorf("%w: %q", ErrStaticNotFound, name)
	}

	content, err := readContained(f.staticDir, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrStaticNotFound, name)
		}
		return nil, err
	}
	return content, nil
}

// readContained reads base/name after verifying the resolved path stays
// within base. Not-exist errors are returned unwrapped for the caller.
func readContained(base, name string) ([]byte, error) {
	filePath := filepath.Join(base, filepath.FromSlash(name))
	if err := verifyPathContainment(base, filePath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// verifyPathContainment ensures the resolved file path is within base.
// Resolves symlinks to prevent escape via a link pointing outside base.
func verifyPathContainment(base, filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// If EvalSymlinks fails (file missing), continue with the lexical path;
	// the read fails anyway and the prefix check still applies.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, base+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)

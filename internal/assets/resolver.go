package assets

import (
	"errors"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// AssetResolver combines project and embedded loaders with fallback logic.
// When a project loader is configured, it tries the project first, then
// falls back to embedded if the asset is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil if the project has no override directories
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver for the project's template and
// asset directories. Directories that do not exist are ignored: a project
// without overrides builds from the embedded defaults alone.
func NewAssetResolver(templateDir, staticDir string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}

	if !fileutil.DirExists(templateDir) {
		templateDir = ""
	}
	if !fileutil.DirExists(staticDir) {
		staticDir = ""
	}
	if templateDir == "" && staticDir == "" {
		return resolver, nil
	}

	fsLoader, err := NewFilesystemLoader(templateDir, staticDir)
	if err != nil {
		return nil, err
	}
	resolver.custom = fsLoader
	return resolver, nil
}

// LoadTemplate loads a template, trying the project loader first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.custom != nil {
		content, err := r.custom.LoadTemplate(name)
		if err == nil {
			return content, nil
		}
		// Only fall back for "not found" errors, not validation or I/O errors
		if !isNotFoundError(err) {
			return "", err
		}
	}
	return r.embedded.LoadTemplate(name)
}

// LoadStatic loads a container file, trying the project loader first.
func (r *AssetResolver) LoadStatic(name string) ([]byte, error) {
	if r.custom != nil {
		content, err := r.custom.LoadStatic(name)
		if err == nil {
			return content, nil
		}
		if !isNotFoundError(err) {
			return nil, err
		}
	}
	return r.embedded.LoadStatic(name)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) || errors.Is(err, ErrStaticNotFound)
}

// HasCustomLoader returns true if a project loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)

package assets

// Template names.
const (
	PackageTemplate = "content.opf.tmpl"
	NavTemplate     = "nav.xhtml.tmpl"
	ChapterTemplate = "xhtml.tmpl"
)

// Container file names, relative to the scratch root.
const (
	MimetypeFile  = "mimetype"
	ContainerFile = "META-INF/container.xml"
)

// AssetLoader defines the contract for loading templates and container files.
type AssetLoader interface {
	// LoadTemplate loads a template by file name (e.g. "content.opf.tmpl").
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name is unsafe.
	LoadTemplate(name string) (string, error)

	// LoadStatic loads a container file by slash-separated relative name.
	// Returns ErrStaticNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the name is unsafe.
	LoadStatic(name string) ([]byte, error)
}

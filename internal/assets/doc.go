// Package assets provides the templates and container files used to build
// an EPUB package.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from the project directories on disk
//	    └── AssetResolver     - combines both with project-first fallback
//
// A project may override any single template or container file by placing a
// file with the same name in its templates/ or assets/ directory; anything it
// does not override comes from the embedded defaults.
//
// # Names
//
// Templates:
//
//	content.opf.tmpl   package manifest
//	nav.xhtml.tmpl     navigation document
//	xhtml.tmpl         chapter wrapper
//
// Container files:
//
//	mimetype
//	META-INF/container.xml
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within its
// base directory.
package assets

package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		template    string
		wantErr     error
		wantContain string
	}{
		{name: "package template", template: PackageTemplate, wantContain: "<package"},
		{name: "nav template", template: NavTemplate, wantContain: `epub:type="toc"`},
		{name: "chapter template", template: ChapterTemplate, wantContain: "markdown_body"},
		{name: "missing template", template: "nope.tmpl", wantErr: ErrTemplateNotFound},
		{name: "invalid name", template: "../x", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) unexpected error: %v", tt.template, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadTemplate(%q) missing %q", tt.template, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadStatic(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("mimetype has no trailing newline", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadStatic(MimetypeFile)
		if err != nil {
			t.Fatalf("LoadStatic(mimetype) error = %v", err)
		}
		if string(got) != "application/epub+zip" {
			t.Errorf("mimetype = %q, want application/epub+zip", got)
		}
	})

	t.Run("container points at the package", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadStatic(ContainerFile)
		if err != nil {
			t.Fatalf("LoadStatic(container) error = %v", err)
		}
		if !strings.Contains(string(got), `full-path="OEBPS/content.opf"`) {
			t.Errorf("container.xml does not reference OEBPS/content.opf:\n%s", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadStatic("META-INF/encryption.xml")
		if !errors.Is(err, ErrStaticNotFound) {
			t.Errorf("LoadStatic() error = %v, want ErrStaticNotFound", err)
		}
	})
}

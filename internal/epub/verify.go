package epub

import (
	"archive/zip"
	"fmt"
	"strings"
)

// Problems lists every container rule the archive breaks. An empty result
// means the archive is structurally sound.
func (b *Book) Problems() []string {
	problems := append([]string(nil), b.readErr...)
	problems = append(problems, b.mimetypeProblems()...)

	if b.Package == nil {
		return problems
	}

	ids := make(map[string]bool, len(b.Package.Manifest))
	for _, item := range b.Package.Manifest {
		if item.ID == "" {
			problems = append(problems, fmt.Sprintf("manifest item %q has no id", item.Href))
		} else if ids[item.ID] {
			problems = append(problems, fmt.Sprintf("duplicate manifest id %q", item.ID))
		}
		ids[item.ID] = true

		target := b.ResolveHref(item.Href)
		if !b.Has(target) {
			problems = append(problems, fmt.Sprintf("manifest item %q not in archive (%s)", item.ID, target))
			continue
		}
		if isXMLMediaType(item.MediaType) {
			if p := b.documentProblem(target); p != "" {
				problems = append(problems, p)
			}
		}
	}

	if len(b.Package.Spine) == 0 {
		problems = append(problems, "spine is empty")
	}
	for _, ref := range b.Package.Spine {
		if !ids[ref.IDRef] {
			problems = append(problems, fmt.Sprintf("spine idref %q not in manifest", ref.IDRef))
		}
	}
	return problems
}

// documentProblem strictly parses the XML document at name.
func (b *Book) documentProblem(name string) string {
	data, err := b.ReadFile(name)
	if err != nil {
		return fmt.Sprintf("%s unreadable: %v", name, err)
	}
	if err := WellFormed(data); err != nil {
		return fmt.Sprintf("%s: %v", name, err)
	}
	return ""
}

func (b *Book) mimetypeProblems() []string {
	if len(b.zr.File) == 0 {
		return []string{"archive is empty"}
	}
	first := b.zr.File[0]
	if first.Name != MimetypeName {
		if b.Has(MimetypeName) {
			return []string{fmt.Sprintf("mimetype is not the first entry (found %q)", first.Name)}
		}
		return []string{"mimetype entry missing"}
	}

	var problems []string
	if first.Method != zip.Store {
		problems = append(problems, "mimetype is compressed")
	}
	data, err := b.ReadFile(MimetypeName)
	if err != nil {
		problems = append(problems, "mimetype unreadable: "+err.Error())
	} else if string(data) != MimetypeContent {
		problems = append(problems, fmt.Sprintf("mimetype content is %q, want %q", data, MimetypeContent))
	}
	return problems
}

// Verify returns an error wrapping ErrVerification when Problems is not
// empty.
func (b *Book) Verify() error {
	problems := b.Problems()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrVerification, strings.Join(problems, "; "))
}

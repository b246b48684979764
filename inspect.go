package md2epub

import (
	"fmt"

	"github.com/alnah/go-md2epub/internal/epub"
)

// EntryInfo describes one entry of an existing archive.
type EntryInfo = epub.EntryInfo

// Inspection is what Inspect learns about an existing .epub file.
type Inspection struct {
	Path       string
	Entries    []EntryInfo
	Title      string
	Identifier string
	Language   string
	Manifest   int // manifest item count
	Spine      []string
	Problems   []string
}

// Valid reports whether the archive passed every check.
func (i *Inspection) Valid() bool {
	return len(i.Problems) == 0
}

// Err returns an error wrapping ErrVerification when the archive has
// problems.
func (i *Inspection) Err() error {
	if i.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s: %d problem(s)", ErrVerification, i.Path, len(i.Problems))
}

// Inspect opens the archive at path, lists its entries and checks it
// against the container rules. Structural problems are reported in the
// result, not as an error.
func Inspect(path string) (*Inspection, error) {
	book, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	in := &Inspection{
		Path:     path,
		Entries:  book.Entries(),
		Problems: book.Problems(),
	}
	if pkg := book.Package; pkg != nil {
		in.Title = pkg.Meta.Title
		in.Identifier = pkg.Meta.Identifier
		in.Language = pkg.Meta.Language
		in.Manifest = len(pkg.Manifest)

		hrefs := make(map[string]string, len(pkg.Manifest))
		for _, item := range pkg.Manifest {
			hrefs[item.ID] = item.Href
		}
		for _, ref := range pkg.Spine {
			if href, ok := hrefs[ref.IDRef]; ok {
				in.Spine = append(in.Spine, href)
			} else {
				in.Spine = append(in.Spine, ref.IDRef)
			}
		}
	}
	return in, nil
}

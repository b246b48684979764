package md2epub

import "testing"

func TestShiftPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"foo/bar/baz", "bar/baz"},
		{"src/images/a.jpg", "images/a.jpg"},
		{"bar/baz", "baz"},
		{"baz", "baz"},
		{"", ""},
		{"/abs", "abs"},
	}

	for _, tt := range tests {
		if got := ShiftPath(tt.in); got != tt.want {
			t.Errorf("ShiftPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Once no separator remains, further shifts change nothing.
	once := ShiftPath(ShiftPath("foo/bar"))
	if ShiftPath(once) != once {
		t.Errorf("ShiftPath is not stable on %q", once)
	}
}

func TestMDExtToXHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"foo/bar/baz.md", "foo/bar/baz.xhtml"},
		{"chapter01.md", "chapter01.xhtml"},
		{"cover.xhtml", "cover.xhtml"},
		{"notes.markdown", "notes.markdown"},
		{"README.MD", "README.MD"},
		{"a.md.txt", "a.md.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MDExtToXHTML(tt.in); got != tt.want {
			t.Errorf("MDExtToXHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDotToHyphen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"cover.jpg", "cover-jpg"},
		{"font.v2.otf", "font-v2-otf"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := DotToHyphen(tt.in); got != tt.want {
			t.Errorf("DotToHyphen(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"example.epub", "trial", "example-trial.epub"},
		{"example.epub", "main", "example.epub"},
		{"example.epub", "", "example.epub"},
		{"my.book.epub", "v2", "my.book-v2.epub"},
		{"noext", "trial", "noext-trial"},
	}

	for _, tt := range tests {
		if got := AppendVersion(tt.name, tt.version); got != tt.want {
			t.Errorf("AppendVersion(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.want)
		}
	}
}

func TestXMLID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"images/a b.jpg", "images-a_b-jpg"},
		{"chapter01.xhtml", "chapter01-xhtml"},
		{"01-intro.xhtml", "id-01-intro-xhtml"},
		{"fonts/Serif_Bold.otf", "fonts-Serif_Bold-otf"},
		{"café.xhtml", "caf_-xhtml"},
		{"", "id-"},
	}

	for _, tt := range tests {
		if got := XMLID(tt.in); got != tt.want {
			t.Errorf("XMLID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

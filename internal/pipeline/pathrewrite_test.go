package pipeline

// Notes:
// - Tests RewriteChapterLinks through its public API; rewriteChapterHref is
//   covered separately because its edge cases are easier to state on strings
// - Error branches of parseFragment/renderFragment are not exercised: the html
//   package does not fail on the fragments goldmark produces

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewriteChapterLinks - Fragment Rewriting
// ---------------------------------------------------------------------------

func TestRewriteChapterLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "sibling chapter",
			html:         `<p><a href="chapter02.md">next</a></p>`,
			wantContains: []string{`href="chapter02.xhtml"`},
			wantExcludes: []string{`chapter02.md`},
		},
		{
			name:         "nested chapter with fragment",
			html:         `<p><a href="part1/intro.md#goals">goals</a></p>`,
			wantContains: []string{`href="part1/intro.xhtml#goals"`},
		},
		{
			name:         "parent directory link",
			html:         `<p><a href="../intro.md">intro</a></p>`,
			wantContains: []string{`href="../intro.xhtml"`},
		},
		{
			name:         "external markdown file unchanged",
			html:         `<p><a href="https://example.com/README.md">readme</a></p>`,
			wantContains: []string{`href="https://example.com/README.md"`},
		},
		{
			name:         "same chapter anchor unchanged",
			html:         `<p><a href="#fn:1">1</a></p>`,
			wantContains: []string{`href="#fn:1"`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<p><a href="/docs/a.md">a</a></p>`,
			wantContains: []string{`href="/docs/a.md"`},
		},
		{
			name:         "non-markdown link unchanged",
			html:         `<p><a href="cover.xhtml">cover</a></p>`,
			wantContains: []string{`href="cover.xhtml"`},
		},
		{
			name:         "image with md-like name unchanged",
			html:         `<p><img src="diagram.md" alt="x"/></p>`,
			wantContains: []string{`src="diagram.md"`},
		},
		{
			name:         "void elements are closed",
			html:         `<p>line<br>next<img src="images/a.jpg" alt="a"></p>`,
			wantContains: []string{`<br/>`, `<img src="images/a.jpg" alt="a"/>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteChapterLinks(tt.html)
			if err != nil {
				t.Fatalf("RewriteChapterLinks() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestRewriteChapterLinks_Empty(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "  \n"} {
		got, err := RewriteChapterLinks(input)
		if err != nil {
			t.Fatalf("RewriteChapterLinks(%q) error = %v", input, err)
		}
		if got != input {
			t.Errorf("RewriteChapterLinks(%q) = %q, want unchanged", input, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRewriteChapterHref - Href Edge Cases
// ---------------------------------------------------------------------------

func TestRewriteChapterHref(t *testing.T) {
	t.Parallel()

	tests := []struct {
		href string
		want string
	}{
		{"a.md", "a.xhtml"},
		{"a.md?x=1#top", "a.xhtml?x=1#top"},
		{"dir/a%20b.md", "dir/a%20b.xhtml"},
		{"a.markdown", "a.markdown"},
		{"a.md.bak", "a.md.bak"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"//cdn.example.com/a.md", "//cdn.example.com/a.md"},
		{"#a.md", "#a.md"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()

			if got := rewriteChapterHref(tt.href); got != tt.want {
				t.Errorf("rewriteChapterHref(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

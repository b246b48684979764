package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteChapterLinks points links between chapters at their converted
// files: a relative a[href] whose path ends in ".md" gets ".xhtml" instead,
// keeping any query or fragment. The fragment is parsed and re-rendered, so
// raw HTML in the chapter also comes out with closed void elements.
//
// Does NOT rewrite:
//   - URLs with a scheme or host (http:, mailto:, //cdn...)
//   - anchors within the same chapter (#section)
//   - absolute paths
//   - img, link and other non-anchor references
func RewriteChapterLinks(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	nodes, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		rewriteNode(n)
	}

	return renderFragment(nodes)
}

// parseFragment parses HTML with a body context to avoid wrapping.
func parseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), context)
}

// renderFragment renders each top-level node back to a string.
func renderFragment(nodes []*html.Node) (string, error) {
	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites chapter links.
func rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key == "href" && attr.Namespace == "" {
				n.Attr[i].Val = rewriteChapterHref(attr.Val)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c)
	}
}

// rewriteChapterHref swaps the ".md" suffix of a relative link path.
// Anything it cannot parse is returned unchanged.
func rewriteChapterHref(href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return href
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return href
	}
	if u.Path == "" || path.IsAbs(u.Path) || !strings.HasSuffix(u.Path, ".md") {
		return href
	}

	// Splice the new suffix into the original text so existing escapes in
	// the query and fragment survive untouched.
	idx := strings.IndexAny(href, "?#")
	if idx == -1 {
		idx = len(href)
	}
	rawPath := href[:idx]
	if !strings.HasSuffix(rawPath, ".md") {
		return href
	}
	return strings.TrimSuffix(rawPath, ".md") + ".xhtml" + href[idx:]
}

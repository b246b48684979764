// Package pipeline converts Markdown chapters to XHTML fragments.
//
// The stages run in order for every chapter:
//   - Markdown preprocessing (line endings, "Key: value" headers, ==highlight==)
//   - Markdown to XHTML conversion via goldmark, with front matter,
//     abbreviation, footnote, definition list and GFM extensions
//   - Mark placeholder expansion and chapter link rewriting
//
// Wrapping the fragment in a page and writing it out is left to the caller,
// which owns the templates.
package pipeline

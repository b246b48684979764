// Package md2epub assembles an EPUB 3 book from a project directory of
// Markdown chapters, static assets and a config file.
//
// # Quick Start
//
// Build the default version of the book in the current directory:
//
//	b := md2epub.NewBuilder(md2epub.DefaultLayout("."))
//	result, err := b.Build(ctx, md2epub.BuildOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.Output)
//
// # Project Layout
//
//	config.yml        book metadata, chapter order, versions
//	src/              chapters (*.md), images/, fonts/, *.css, *.xhtml
//	templates/        optional overrides of the built-in templates
//	assets/           optional overrides of mimetype and META-INF/container.xml
//
// # Build Pipeline
//
//  1. Load the config and resolve the requested version
//  2. Check every declared chapter exists (nothing is written otherwise)
//  3. Stage the scratch tree: container files, then static assets from src
//  4. Convert chapters to XHTML via goldmark
//  5. Render content.opf and nav.xhtml
//  6. Zip the scratch tree: mimetype first and stored, the rest deflated
//
// # Versions
//
// A config may declare named versions, each with its own chapter list and
// cover image:
//
//	epub_file_name: example.epub
//	versions:
//	  main:
//	    contents: [chapter01.md, chapter02.md]
//	    cover_image: images/cover.jpg
//	  trial:
//	    contents: [chapter01.md]
//
// Building "trial" writes example-trial.epub.
//
// # Templates
//
// Templates use html/template with these helpers registered:
// shift_path, md_ext_to_xhtml, dot_to_hyphen, md_to_title, media_type and
// xml_id.
package md2epub

package main

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	md2epub "github.com/alnah/go-md2epub"
)

// runInspect prints the entries, metadata and reading order of an archive
// and returns an ErrVerification error when a check fails.
func runInspect(args []string, env *Environment) error {
	f, positional, err := parseInspectFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: inspect takes exactly one .epub file", ErrUsage)
	}
	logger, err := newLogger(f, env.Stderr)
	if err != nil {
		return err
	}

	in, err := md2epub.Inspect(positional[0])
	if err != nil {
		return err
	}
	logger.Debug("inspected archive", "path", in.Path, "entries", len(in.Entries), "problems", len(in.Problems))

	if !f.quiet {
		printInspection(env.Stdout, in, f.verbose)
	}
	printProblems(env.Stderr, in.Problems)
	return in.Err()
}

// printInspection writes the metadata block and the entry table.
// verbose adds modification times to the table.
func printInspection(w io.Writer, in *md2epub.Inspection, verbose bool) {
	fmt.Fprintf(w, "File:       %s\n", in.Path)
	fmt.Fprintf(w, "Title:      %s\n", in.Title)
	fmt.Fprintf(w, "Identifier: %s\n", in.Identifier)
	fmt.Fprintf(w, "Language:   %s\n", in.Language)
	fmt.Fprintf(w, "Manifest:   %d items\n", in.Manifest)
	fmt.Fprintf(w, "Spine:      %s\n", strings.Join(in.Spine, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, entryTable(in.Entries, verbose))
}

// entryTable renders one row per archive entry, in archive order.
func entryTable(entries []md2epub.EntryInfo, verbose bool) string {
	headers := []string{"Entry", "Method", "Size", "Compressed"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight}
	if verbose {
		headers = append(headers, "Modified")
		aligns = append(aligns, alignLeft)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{
			e.Name,
			methodName(e.Method),
			humanize.Bytes(e.UncompressedSize),
			humanize.Bytes(e.CompressedSize),
		}
		if verbose {
			row = append(row, e.Modified.UTC().Format("2006-01-02 15:04:05"))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func methodName(m uint16) string {
	switch m {
	case zip.Store:
		return "stored"
	case zip.Deflate:
		return "deflated"
	default:
		return fmt.Sprintf("method %d", m)
	}
}

// printProblems lists verification problems, one per line.
func printProblems(w io.Writer, problems []string) {
	if len(problems) == 0 {
		return
	}
	warn := color.New(color.FgYellow).SprintFunc()
	for _, p := range problems {
		fmt.Fprintf(w, "%s %s\n", warn("problem:"), p)
	}
}

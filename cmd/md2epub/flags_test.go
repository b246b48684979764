package main

// Notes:
// - parseBuildFlags/parseInspectFlags/parseCleanFlags: we test flag values,
//   positional arguments, --help and mutually exclusive flags.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseBuildFlags
// ---------------------------------------------------------------------------

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	var usage bytes.Buffer
	f, args, err := parseBuildFlags([]string{
		"trial", "-C", "book", "-c", "book/config.toml", "-o", "dist",
		"--build-dir", "/tmp/b", "--clean", "-v", "--log-format", "json",
	}, &usage)
	if err != nil {
		t.Fatalf("parseBuildFlags() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"dir", f.common.dir, "book"},
		{"config", f.common.config, "book/config.toml"},
		{"outputDir", f.common.outputDir, "dist"},
		{"buildDir", f.common.buildDir, "/tmp/b"},
		{"clean", f.clean, true},
		{"verbose", f.common.verbose, true},
		{"logFormat", f.common.logFormat, "json"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if len(args) != 1 || args[0] != "trial" {
		t.Errorf("args = %v, want [trial]", args)
	}
	if usage.Len() != 0 {
		t.Errorf("usage printed without --help: %q", usage.String())
	}
}

func TestParseBuildFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown flag", []string{"--pdf"}, ErrUsage},
		{"missing value", []string{"-o"}, ErrUsage},
		{"clean and keep", []string{"--clean", "--keep"}, ErrUsage},
		{"help", []string{"--help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var usage bytes.Buffer
			_, _, err := parseBuildFlags(tt.args, &usage)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(tt.wantErr, flag.ErrHelp) && !strings.Contains(usage.String(), "md2epub build") {
				t.Errorf("--help should print build usage, got %q", usage.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseInspectFlags and TestParseCleanFlags
// ---------------------------------------------------------------------------

func TestParseInspectFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseInspectFlags([]string{"book.epub", "-q"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseInspectFlags() error = %v", err)
	}
	if !f.quiet || len(args) != 1 || args[0] != "book.epub" {
		t.Errorf("quiet = %v, args = %v", f.quiet, args)
	}

	if _, _, err := parseInspectFlags([]string{"-C", "dir"}, &bytes.Buffer{}); !errors.Is(err, ErrUsage) {
		t.Errorf("inspect has no project flags, error = %v", err)
	}
}

func TestParseCleanFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseCleanFlags([]string{"--dir", "book", "--build-dir", "scratch"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseCleanFlags() error = %v", err)
	}
	if f.dir != "book" || f.buildDir != "scratch" || len(args) != 0 {
		t.Errorf("dir = %q, buildDir = %q, args = %v", f.dir, f.buildDir, args)
	}
}

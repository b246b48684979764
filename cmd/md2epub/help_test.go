package main

// Notes:
// - printUsage and the per-command usages: we test that required content
//   strings are present. We don't test exact formatting as that's an
//   implementation detail.
// - runHelp: we test routing to the correct help topic.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestUsage - Usage output
// ---------------------------------------------------------------------------

func TestUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(io.Writer)
		want  []string
	}{
		{"main", printUsage, []string{"Usage: md2epub", "Commands:", "build", "inspect", "clean", "version", "help"}},
		{"build", printBuildUsage, []string{"md2epub build [version]", "--output", "--clean", "MD2EPUB_OUTPUT_DIR", ".env"}},
		{"inspect", printInspectUsage, []string{"md2epub inspect <file.epub>", "Exits with 4"}},
		{"clean", printCleanUsage, []string{"md2epub clean", "--build-dir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.print(&buf)
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("usage should contain %q", s)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     []string
		wantCode int
		want     string
	}{
		{nil, ExitSuccess, "Commands:"},
		{[]string{"build"}, ExitSuccess, "md2epub build"},
		{[]string{"inspect"}, ExitSuccess, "md2epub inspect"},
		{[]string{"clean"}, ExitSuccess, "md2epub clean"},
		{[]string{"version"}, ExitSuccess, "md2epub version"},
		{[]string{"help"}, ExitSuccess, "md2epub help"},
		{[]string{"nope"}, ExitUsage, "Unknown command: nope"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			env, stdout, stderr := testEnv(nil)
			if code := runHelp(tt.args, env); code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if got := stdout.String() + stderr.String(); !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

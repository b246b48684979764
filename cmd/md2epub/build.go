package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	md2epub "github.com/alnah/go-md2epub"
)

// runBuild assembles one version of the book.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseBuildFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: build takes at most one version, got %d", ErrUsage, len(positional))
	}
	version := ""
	if len(positional) == 1 {
		version = positional[0]
	}

	p, err := resolveProject(&f.common, env)
	if err != nil {
		return err
	}

	builder := md2epub.NewBuilder(p.layout,
		md2epub.WithLogger(p.logger),
		md2epub.WithClock(env.Now),
	)
	layout := builder.Layout()
	if f.common.outputDir != "" {
		if err := ensureOutputDir(layout.OutputDir); err != nil {
			return err
		}
	}

	result, err := builder.Build(ctx, md2epub.BuildOptions{Version: version, Clean: f.clean})
	if err != nil {
		return annotate(err, layout)
	}

	if !f.common.quiet {
		printBuildResult(env, result)
	}
	return nil
}

// printBuildResult prints the one-line build summary.
func printBuildResult(env *Environment, r *md2epub.BuildResult) {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(env.Stdout, "%s %s (%d chapters, %s, %s)\n",
		ok("built"),
		r.Output,
		len(r.Chapters),
		humanize.Bytes(uint64(r.Size())), // #nosec G115 -- sizes are non-negative
		r.Duration.Round(time.Millisecond),
	)
}

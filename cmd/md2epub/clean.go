package main

import (
	"fmt"

	md2epub "github.com/alnah/go-md2epub"
)

// runClean removes the scratch directory.
func runClean(args []string, env *Environment) error {
	f, positional, err := parseCleanFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: clean takes no arguments", ErrUsage)
	}

	p, err := resolveProject(f, env)
	if err != nil {
		return err
	}

	builder := md2epub.NewBuilder(p.layout, md2epub.WithLogger(p.logger))
	layout := builder.Layout()
	if err := builder.Clean(); err != nil {
		return annotate(err, layout)
	}
	p.logger.Info("removed scratch directory", "dir", layout.BuildDir)
	return nil
}

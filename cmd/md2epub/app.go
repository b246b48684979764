package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	md2epub "github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/hints"
	"github.com/alnah/go-md2epub/internal/logging"
	"github.com/alnah/go-md2epub/internal/staging"
)

// ErrOutputDir reports an output directory that cannot be created.
var ErrOutputDir = errors.New("cannot create output directory")

// runMain dispatches to a command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "inspect":
		err = runInspect(rest, env)
	case "clean":
		err = runClean(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2epub %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// project is the resolved command-line view of one book project.
type project struct {
	layout md2epub.Layout
	logger *slog.Logger
}

// resolveProject merges flags, environment and .env values into a layout
// and builds the logger.
func resolveProject(f *commonFlags, env *Environment) (*project, error) {
	if f.dir == "" {
		f.dir = env.Getenv("MD2EPUB_DIR")
	}
	src, err := newEnvSource(env, f.dir)
	if err != nil {
		return nil, err
	}
	if f.dir == "" {
		f.dir = src.Get("MD2EPUB_DIR")
	}
	applyEnvConfig(loadEnvConfig(src), f)

	logger, err := newLogger(f, env.Stderr)
	if err != nil {
		return nil, err
	}
	warnUnknownEnvVars(env.Stderr, src)

	layout := md2epub.DefaultLayout(f.dir)
	layout.ConfigPath = f.config
	if f.outputDir != "" {
		layout.OutputDir = f.outputDir
	}
	if f.buildDir != "" {
		layout.BuildDir = f.buildDir
	}
	return &project{layout: layout, logger: logger}, nil
}

// newLogger builds the logger from the output control flags.
// -v and -q win over --log-level and MD2EPUB_LOG_LEVEL.
func newLogger(f *commonFlags, w io.Writer) (*slog.Logger, error) {
	level := f.logLevel
	switch {
	case f.verbose:
		level = "debug"
	case f.quiet:
		level = "error"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: f.logFormat, Writer: w})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return logger, nil
}

// ensureOutputDir creates dir if needed.
func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputDir, dir, err)
	}
	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var missing *md2epub.MissingContentError
	switch {
	case errors.As(err, &missing):
		return hints.ForMissingContent(missing.SourceDir, missing.Missing)
	case errors.Is(err, md2epub.ErrConfigNotFound):
		var cnf *configNotFoundError
		if errors.As(err, &cnf) {
			return hints.ForConfigNotFound(cnf.dir)
		}
		return hints.ForConfigNotFound(".")
	case errors.Is(err, md2epub.ErrUnknownVersion):
		var uv *unknownVersionError
		if errors.As(err, &uv) {
			return hints.ForUnknownVersion(uv.available)
		}
	case errors.Is(err, md2epub.ErrBuildLocked):
		var bl *buildLockedError
		if errors.As(err, &bl) {
			return hints.ForBuildLocked(staging.LockPath(bl.buildDir))
		}
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, md2epub.ErrTemplateNotFound), errors.Is(err, md2epub.ErrTemplateRender):
		var te *templateError
		if errors.As(err, &te) {
			return hints.ForTemplate(te.dir)
		}
	case errors.Is(err, md2epub.ErrVerification):
		return hints.ForVerification()
	}
	return ""
}

// The error types below attach project details a hint needs. They keep
// the wrapped error visible to errors.Is.

type configNotFoundError struct {
	err error
	dir string
}

func (e *configNotFoundError) Error() string { return e.err.Error() }
func (e *configNotFoundError) Unwrap() error { return e.err }

type unknownVersionError struct {
	err       error
	available []string
}

func (e *unknownVersionError) Error() string { return e.err.Error() }
func (e *unknownVersionError) Unwrap() error { return e.err }

type buildLockedError struct {
	err      error
	buildDir string
}

func (e *buildLockedError) Error() string { return e.err.Error() }
func (e *buildLockedError) Unwrap() error { return e.err }

type templateError struct {
	err error
	dir string
}

func (e *templateError) Error() string { return e.err.Error() }
func (e *templateError) Unwrap() error { return e.err }

// annotate wraps err with the project details its hint needs.
func annotate(err error, layout md2epub.Layout) error {
	switch {
	case errors.Is(err, md2epub.ErrConfigNotFound):
		dir := layout.Dir
		if dir == "" {
			dir = "."
		}
		return &configNotFoundError{err: err, dir: dir}
	case errors.Is(err, md2epub.ErrUnknownVersion):
		available := []string{md2epub.DefaultVersion}
		if cfg, loadErr := md2epub.LoadConfig(layout); loadErr == nil {
			available = cfg.VersionNames()
		}
		return &unknownVersionError{err: err, available: available}
	case errors.Is(err, md2epub.ErrBuildLocked):
		return &buildLockedError{err: err, buildDir: layout.BuildDir}
	case errors.Is(err, md2epub.ErrTemplateNotFound), errors.Is(err, md2epub.ErrTemplateRender):
		dir := layout.TemplateDir
		if dir == "" {
			dir = filepath.Join(layout.Dir, md2epub.TemplateDirName)
		}
		return &templateError{err: err, dir: dir}
	}
	return err
}

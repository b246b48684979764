package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks command-line mistakes: unknown flags, bad arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	dir       string
	config    string
	outputDir string
	buildDir  string
	logFormat string
	logLevel  string
	quiet     bool
	verbose   bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common commonFlags
	clean  bool
	keep   bool
}

// addProjectFlags adds the project location flags to a FlagSet.
func addProjectFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.dir, "dir", "C", "", "project directory (default: current directory)")
	fs.StringVarP(&f.config, "config", "c", "", "config file path (default: config.yml in the project)")
	fs.StringVar(&f.buildDir, "build-dir", "", "scratch directory (default: <dir>/temp)")
}

// addOutputControlFlags adds logging flags to a FlagSet.
func addOutputControlFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show every staged and archived file")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, usage io.Writer) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}

	fs.StringVarP(&f.common.outputDir, "output", "o", "", "output directory (default: project directory)")
	fs.BoolVar(&f.clean, "clean", false, "remove the scratch directory after a successful build")
	fs.BoolVar(&f.keep, "keep", false, "keep the scratch directory (default)")
	addProjectFlags(fs, &f.common)
	addOutputControlFlags(fs, &f.common)

	if err := parse(fs, args, usage, printBuildUsage); err != nil {
		return nil, nil, err
	}
	if f.clean && f.keep {
		return nil, nil, fmt.Errorf("%w: --clean and --keep are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags.
func parseInspectFlags(args []string, usage io.Writer) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	f := &commonFlags{}
	addOutputControlFlags(fs, f)

	if err := parse(fs, args, usage, printInspectUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCleanFlags parses clean command flags.
func parseCleanFlags(args []string, usage io.Writer) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	f := &commonFlags{}
	addProjectFlags(fs, f)
	addOutputControlFlags(fs, f)

	if err := parse(fs, args, usage, printCleanUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parse runs fs over args. --help prints usage and returns flag.ErrHelp;
// other parse errors are wrapped with ErrUsage.
func parse(fs *flag.FlagSet, args []string, usage io.Writer, printUsage func(io.Writer)) error {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(usage)
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

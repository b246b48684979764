package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2epub <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Assemble the book into an .epub file")
	fmt.Fprintln(w, "  inspect    List the entries of an .epub file and check it")
	fmt.Fprintln(w, "  clean      Remove the scratch directory")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2epub help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2epub build [version] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assemble the book described by the project config into an .epub file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  version    Named version from the config (default: main)")
	fmt.Fprintln(w, "             Non-default versions write <name>-<version>.epub")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Project:")
	fmt.Fprintln(w, "  -C, --dir <path>          Project directory")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (config.yml, config.yaml, config.toml)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "      --build-dir <path>    Scratch directory (default: <dir>/temp)")
	fmt.Fprintln(w, "      --clean               Remove the scratch directory afterwards")
	fmt.Fprintln(w, "      --keep                Keep the scratch directory (default)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show every staged and archived file")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2EPUB_CONFIG, MD2EPUB_DIR, MD2EPUB_OUTPUT_DIR, MD2EPUB_BUILD_DIR,")
	fmt.Fprintln(w, "  MD2EPUB_LOG_FORMAT, MD2EPUB_LOG_LEVEL")
	fmt.Fprintln(w, "  Values may also come from a .env file in the project directory.")
	fmt.Fprintln(w, "  Flags override the environment.")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2epub inspect <file.epub> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the archive entries, the book metadata and the reading order,")
	fmt.Fprintln(w, "then check the container rules. Exits with 4 when a check fails.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show problems")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
}

// printCleanUsage prints usage for the clean command.
func printCleanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2epub clean [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove the scratch directory and its lock file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Project:")
	fmt.Fprintln(w, "  -C, --dir <path>          Project directory")
	fmt.Fprintln(w, "      --build-dir <path>    Scratch directory (default: <dir>/temp)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "clean":
		printCleanUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2epub version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2epub help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

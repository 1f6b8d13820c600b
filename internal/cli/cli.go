// Package cli provides command-line interface functionality for nwtest.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("nwtest %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "nw:test", "test":
		return cmdNWTest(cmdArgs, opts)
	case "test-summary":
		return cmdTestSummary(cmdArgs)
	case "config":
		return cmdConfig(cmdArgs)
	case "completion":
		return cmdCompletion(cmdArgs)
	case "help":
		printUsage()
		return 0
	case "version":
		out.Println("nwtest %s", Version)
		return 0
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'nwtest help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet   bool
	Verbose bool
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Global flags may appear anywhere, before or after the command, so the
// stdlib flag package, which stops at the first non-flag, does not fit.
// Everything after -- is passed through untouched.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
		}
	}

	if opts.Quiet && opts.Verbose {
		return nil, nil, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// commandInfo describes a top-level command for help and completion.
type commandInfo struct {
	name        string
	description string
}

// builtinCommands lists the top-level commands in help order.
var builtinCommands = []commandInfo{
	{"nw:test", "Build the project and run its tests in NW.js (alias: test)"},
	{"test-summary", "Summarize TAP output from a file or stdin"},
	{"config", "Configuration utilities (validate)"},
	{"completion", "Generate shell completion (bash, zsh, fish)"},
	{"version", "Show version information"},
	{"help", "Show help"},
}

func commandNames() []string {
	names := make([]string, len(builtinCommands))
	for i, c := range builtinCommands {
		names[i] = c.name
	}
	return names
}

func printUsage() {
	w := output.New()

	w.HelpTitle("nwtest - run Ember test suites inside NW.js")

	w.HelpSection("Usage:")
	w.HelpUsage("nwtest [global flags] <command> [flags]")

	width := 0
	for _, c := range builtinCommands {
		width = max(width, len(c.name))
	}
	w.HelpSection("Commands:")
	for _, c := range builtinCommands {
		w.HelpCommand(c.name, c.description, width)
	}

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("nwtest nw:test", "Build in the test environment and run the suite")
	w.HelpExample("nwtest nw:test --output-path=dist-test", "Build into a custom directory")
	w.HelpExample("nwtest -v test --environment=development", "Verbose run against a development build")
	w.HelpExample("nwtest config validate", "Check nwtest.json")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidthGlobal)
	w.HelpFlag("-v, --verbose", "Maximum detail", helpFlagWidthGlobal)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthGlobal)
	w.HelpFlag("--version", "Show version", helpFlagWidthGlobal)

	w.HelpSection("Environment:")
	w.HelpEnvVar("NWTEST_NW_PATH", "NW.js executable (overrides nw_path)", 16)
	w.HelpEnvVar("NWTEST_NODE_PATH", "Node.js executable (overrides node_path)", 16)
}

// splitFlag splits "--name=value" into its parts. ok is false when arg is
// not a flag with an inline value.
func splitFlag(arg string) (name, value string, ok bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	name, value, ok = strings.Cut(arg, "=")
	return name, value, ok
}

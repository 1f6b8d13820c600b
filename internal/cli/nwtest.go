package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/nwtest/internal/build"
	"github.com/AndreyAkinshin/nwtest/internal/command"
	"github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/harness"
	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/project"
	"github.com/AndreyAkinshin/nwtest/internal/runnerscript"
)

// nwTestFlags holds the nw:test command line flags. Empty values fall back
// to nwtest.json.
type nwTestFlags struct {
	OutputPath  string
	Environment string
	Mode        string
	Timeout     *time.Duration
}

// parseNWTestFlags parses nw:test flags. Values may be inline
// (--output-path=dist) or separate (--output-path dist).
func parseNWTestFlags(args []string) (*nwTestFlags, error) {
	flags := &nwTestFlags{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, inline := splitFlag(arg)
		if !inline {
			name = arg
		}

		takeValue := func() (string, error) {
			if inline {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "--output-path", "-o":
			flags.OutputPath, err = takeValue()
		case "--environment", "-e":
			flags.Environment, err = takeValue()
		case "--mode":
			flags.Mode, err = takeValue()
			if err == nil {
				if _, ok := harness.ParseMode(flags.Mode); !ok {
					err = fmt.Errorf("invalid --mode value %q\n  valid values: ci, dev", flags.Mode)
				}
			}
		case "--timeout":
			var raw string
			raw, err = takeValue()
			if err == nil {
				var secs int
				secs, err = strconv.Atoi(raw)
				if err != nil || secs < 0 {
					err = fmt.Errorf("invalid --timeout value %q: want a non-negative number of seconds", raw)
				}
				d := time.Duration(secs) * time.Second
				flags.Timeout = &d
			}
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return nil, fmt.Errorf("nw:test: unknown flag %s", arg)
			}
			return nil, fmt.Errorf("nw:test: unexpected argument %q", arg)
		}
		if err != nil {
			return nil, err
		}
		if inline && value == "" {
			return nil, fmt.Errorf("%s requires a value", name)
		}
	}
	return flags, nil
}

// cmdNWTest builds the project and runs its test suite in NW.js.
func cmdNWTest(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printNWTestUsage()
		return 0
	}

	flags, err := parseNWTestFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject()
	if proj == nil {
		return exitCode
	}
	for _, w := range proj.Warnings {
		out.WarningSimple("%s", w)
	}
	out.Debug("project: %s", proj)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, cmdOpts, err := newNWTestCommand(proj, flags, out)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	result, err := cmd.Run(ctx, cmdOpts)
	if result != nil && len(result.Launchers) > 0 {
		printTestSummary(result)
	}
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			out.ErrorPrefix("interrupted")
			return errors.ExitRuntimeError
		}
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if !result.Passed() {
		return errors.ExitRuntimeError
	}
	return 0
}

// newNWTestCommand wires the command from the project configuration and
// flags. Flags win over nwtest.json.
func newNWTestCommand(proj *project.Project, flags *nwTestFlags, w *output.Writer) (*command.Command, command.Options, error) {
	cfg := proj.Config

	runnerOverride := cfg.RunnerPath
	if runnerOverride != "" && !filepath.IsAbs(runnerOverride) {
		runnerOverride = filepath.Join(proj.Root, runnerOverride)
	}
	runnerPath, err := runnerscript.Resolve(runnerOverride)
	if err != nil {
		return nil, command.Options{}, err
	}

	modeName := cfg.Test.Mode
	if flags.Mode != "" {
		modeName = flags.Mode
	}
	mode, _ := harness.ParseMode(modeName)

	runner := harness.NewRunner(w)
	runner.Mode = mode
	runner.Timeout = cfg.Test.TimeoutDuration()
	if flags.Timeout != nil {
		runner.Timeout = *flags.Timeout
	}
	runner.Env = cfg.Test.Env

	environment := cfg.Environment
	if flags.Environment != "" {
		environment = flags.Environment
	}

	cmd := &command.Command{
		Build:      &build.ShellTask{Command: cfg.Build.Command, Env: cfg.Build.Env, Out: w},
		Tests:      runner,
		RunnerPath: runnerPath,
		NodePath:   cfg.NodePath,
		NWPath:     cfg.NWPath,
		Out:        w,
	}
	opts := command.Options{
		OutputPath:   proj.OutputPath(flags.OutputPath),
		Environment:  environment,
		ProjectRoot:  proj.Root,
		ManifestPath: proj.ManifestPath(),
	}
	return cmd, opts, nil
}

var nwTestSteps = map[string]string{
	command.StepBuild:   "Run the build command into the output path",
	command.StepPrepare: "Point tests/index.html at the build root, copy package.json",
	command.StepTest:    "Launch the suite in NW.js and read its TAP output",
}

func printNWTestUsage() {
	w := output.New()

	w.HelpTitle("nwtest nw:test - build the project and run its tests in NW.js")

	w.HelpSection("Usage:")
	w.HelpUsage("nwtest nw:test [flags]")

	w.HelpSection("Steps:")
	titleCase := cases.Title(language.English)
	for i, step := range []string{command.StepBuild, command.StepPrepare, command.StepTest} {
		w.HelpCommand(fmt.Sprintf("%d. %s", i+1, titleCase.String(step)), nwTestSteps[step], 10)
	}

	w.HelpSection("Flags:")
	w.HelpFlag("-o, --output-path=<dir>", "Build output directory (default: tmp/nw-test)", helpFlagWidthTest)
	w.HelpFlag("-e, --environment=<env>", "Build environment (default: test)", helpFlagWidthTest)
	w.HelpFlag("--mode=<mode>", "Launcher list to run: ci or dev (default: ci)", helpFlagWidthTest)
	w.HelpFlag("--timeout=<seconds>", "Stop NW.js after this many seconds (0: no limit)", helpFlagWidthTest)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthTest)

	w.HelpSection("Exit Codes:")
	w.HelpCommand("0", "All tests passed", 2)
	w.HelpCommand("1", "Build failed, tests failed or NW.js failed", 2)
	w.HelpCommand("2", "Invalid configuration or flags", 2)
	w.HelpCommand("3", "Missing executable or project", 2)

	w.HelpSection("Examples:")
	w.HelpExample("nwtest nw:test", "Build and test with defaults")
	w.HelpExample("nwtest nw:test -e development -o dist-test", "Custom environment and output")
	w.HelpExample("NWTEST_NW_PATH=/opt/nwjs/nw nwtest test", "Use a specific NW.js")
	w.Println("")
}

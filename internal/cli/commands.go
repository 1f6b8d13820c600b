package cli

import (
	"fmt"
	"os"

	"github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/project"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidthShort  = 10 // Width for short flags like "-h, --help"
	helpFlagWidthGlobal = 14 // Width for global flags like "--verbose"
	helpFlagWidthTest   = 24 // Width for nw:test flags like "--output-path=<dir>"
)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// loadProject loads the project and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and the error's exit code.
func loadProject() (*project.Project, int) {
	proj, err := project.LoadProject()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}
	return proj, 0
}

// cmdConfig handles configuration utilities.
func cmdConfig(args []string) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate()
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate() int {
	proj, exitCode := loadProject()
	if proj == nil {
		return exitCode
	}

	for _, w := range proj.Warnings {
		out.WarningSimple("%s", w)
	}

	cfg := proj.Config
	out.ValidationSuccess("Configuration is valid.")
	out.SummaryItem("Project", proj.String())
	if _, err := os.Stat(proj.ConfigPath()); err == nil {
		out.SummaryItem("Config", proj.ConfigPath())
	} else {
		out.Info("No %s found, using defaults.", project.ConfigFileName)
	}
	out.SummaryItem("Output", proj.OutputPath(""))
	out.SummaryItem("Environment", cfg.Environment)
	out.SummaryItem("Build", cfg.Build.Command)
	out.SummaryItem("NW.js", cfg.NWPath)
	out.SummaryItem("Mode", cfg.Test.Mode)
	if d := cfg.Test.TimeoutDuration(); d > 0 {
		out.SummaryItem("Timeout", d.String())
	}
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	w := output.New()

	w.HelpTitle("nwtest config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("nwtest config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate nwtest.json and show the effective settings", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("nwtest config validate", "Validate project configuration")
	w.Println("")
}

// Package command implements nw:test: build the project, prepare the built
// tests directory for NW.js, then run the tests through the harness.
package command

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/nwtest/internal/assets"
	"github.com/AndreyAkinshin/nwtest/internal/build"
	"github.com/AndreyAkinshin/nwtest/internal/harness"
	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/runnerscript"
)

// LauncherName is the harness launcher that runs the suite in NW.js.
const LauncherName = "NW.js"

// Step names, as reported in output.
const (
	StepBuild   = "build"
	StepPrepare = "prepare"
	StepTest    = "test"
)

// Default executables used in the launcher command.
const (
	DefaultNodePath = "node"
	DefaultNWPath   = "nw"
)

// Options are the invocation options of a single run.
type Options struct {
	OutputPath  string            // absolute build output directory
	Environment string            // build environment
	ProjectRoot string            // absolute project root holding package.json
	Env         map[string]string // extra build environment

	// ManifestPath is the package.json copied into the tests directory.
	// Empty means <ProjectRoot>/package.json.
	ManifestPath string
}

func (o Options) manifestPath() string {
	if o.ManifestPath != "" {
		return o.ManifestPath
	}
	return filepath.Join(o.ProjectRoot, assets.ManifestFile)
}

// Command is the build-then-test command.
type Command struct {
	Build build.Task
	Tests harness.Task

	// RunnerPath is the runner script. Empty means the embedded script,
	// materialized before the build starts.
	RunnerPath string
	NodePath   string
	NWPath     string

	Out *output.Writer
}

// Run builds, prepares and tests. It stops at the first failing step and
// returns that step's error unchanged; artifacts already written under
// opts.OutputPath are left in place.
func (c *Command) Run(ctx context.Context, opts Options) (*harness.Result, error) {
	runner, err := c.runnerPath()
	if err != nil {
		return nil, err
	}

	c.Out.StepStart(StepBuild, fmt.Sprintf("%s → %s", opts.Environment, opts.OutputPath))
	err = c.Build.Run(ctx, build.Options{
		OutputPath:  opts.OutputPath,
		Environment: opts.Environment,
		ProjectRoot: opts.ProjectRoot,
		Env:         opts.Env,
	})
	if err != nil {
		c.Out.StepFailed(StepBuild)
		return nil, err
	}
	c.Out.StepSuccess(StepBuild)

	testsDir := TestsDir(opts.OutputPath)
	c.Out.StepStart(StepPrepare, testsDir)
	if err := assets.Prepare(testsDir, opts.manifestPath()); err != nil {
		c.Out.StepFailed(StepPrepare)
		return nil, err
	}
	c.Out.StepSuccess(StepPrepare)

	c.Out.StepStart(StepTest, LauncherName)
	result, err := c.Tests.Run(ctx, c.LaunchConfig(runner, testsDir))
	if err != nil {
		c.Out.StepFailed(StepTest)
		return result, err
	}
	c.Out.StepSuccess(StepTest)
	return result, nil
}

// LaunchConfig returns the harness configuration that runs the NW.js
// launcher in testsDir with the given runner script.
func (c *Command) LaunchConfig(runner, testsDir string) harness.Config {
	return harness.Config{
		Cwd: testsDir,
		Launchers: map[string]harness.Launcher{
			LauncherName: {
				Command:  LauncherCommand(orDefault(c.NodePath, DefaultNodePath), runner, orDefault(c.NWPath, DefaultNWPath), testsDir),
				Protocol: harness.ProtocolTAP,
			},
		},
		LaunchInCI:  []string{LauncherName},
		LaunchInDev: []string{LauncherName},
	}
}

// LauncherCommand builds the runner invocation:
//
//	node "<runner>" --nw-path="<nw>" --tests-path="<tests dir>"
func LauncherCommand(node, runner, nw, testsDir string) string {
	return fmt.Sprintf(`%s "%s" --nw-path="%s" --tests-path="%s"`, node, runner, nw, testsDir)
}

// TestsDir returns the tests directory inside a build output.
func TestsDir(outputPath string) string {
	return filepath.Join(outputPath, "tests")
}

func (c *Command) runnerPath() (string, error) {
	if c.RunnerPath != "" {
		return c.RunnerPath, nil
	}
	return runnerscript.Resolve("")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

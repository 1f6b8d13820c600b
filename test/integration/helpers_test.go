// Package integration contains end-to-end tests for nwtest against fixture
// projects.
package integration

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/nwtest/internal/build"
	"github.com/AndreyAkinshin/nwtest/internal/command"
	"github.com/AndreyAkinshin/nwtest/internal/harness"
	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/project"
	"github.com/AndreyAkinshin/nwtest/internal/runnerscript"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// copyFixture copies a fixture project into a temporary directory, since a
// run writes its build output under the project root.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fixture projects use sh scripts")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.CopyFS(root, os.DirFS(filepath.Join(fixturesDir(), name))); err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func quietWriter() *output.Writer {
	return output.NewWithWriters(io.Discard, io.Discard, false)
}

// newCommand wires a command from the project configuration the same way
// the CLI does.
func newCommand(t *testing.T, proj *project.Project) (*command.Command, command.Options) {
	t.Helper()
	w := quietWriter()
	cfg := proj.Config

	runnerPath := cfg.RunnerPath
	if runnerPath != "" && !filepath.IsAbs(runnerPath) {
		runnerPath = filepath.Join(proj.Root, runnerPath)
	}
	runnerPath, err := runnerscript.Resolve(runnerPath)
	if err != nil {
		t.Fatalf("runnerscript.Resolve() error = %v", err)
	}

	mode, _ := harness.ParseMode(cfg.Test.Mode)
	runner := harness.NewRunner(w)
	runner.Mode = mode
	runner.Timeout = cfg.Test.TimeoutDuration()
	runner.Env = cfg.Test.Env

	cmd := &command.Command{
		Build:      &build.ShellTask{Command: cfg.Build.Command, Env: cfg.Build.Env, Out: w},
		Tests:      runner,
		RunnerPath: runnerPath,
		NodePath:   cfg.NodePath,
		NWPath:     cfg.NWPath,
		Out:        w,
	}
	return cmd, command.Options{
		OutputPath:   proj.OutputPath(""),
		Environment:  cfg.Environment,
		ProjectRoot:  proj.Root,
		ManifestPath: proj.ManifestPath(),
	}
}

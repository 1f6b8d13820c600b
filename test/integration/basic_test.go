package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/nwtest/internal/project"
)

func TestEmberAppProject(t *testing.T) {
	t.Parallel()
	root := copyFixture(t, "ember-app")

	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatalf("failed to load ember-app project: %v", err)
	}

	if proj.Manifest.Name != "ember-app" {
		t.Errorf("Manifest.Name = %q, want %q", proj.Manifest.Name, "ember-app")
	}
	if proj.Config.Environment != "test" {
		t.Errorf("Environment = %q, want default %q", proj.Config.Environment, "test")
	}
	if got := proj.Config.Test.TimeoutDuration().Seconds(); got != 30 {
		t.Errorf("timeout = %vs, want 30s", got)
	}
	if want := filepath.Join(root, "tmp", "nw-test"); proj.OutputPath("") != want {
		t.Errorf("OutputPath() = %q, want %q", proj.OutputPath(""), want)
	}
	if len(proj.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", proj.Warnings)
	}
}

func TestEmberAppRun(t *testing.T) {
	t.Parallel()
	root := copyFixture(t, "ember-app")

	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatal(err)
	}
	cmd, opts := newCommand(t, proj)

	result, err := cmd.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	counts := result.Counts()
	if !result.Passed() || counts.Passed != 3 || counts.Total != 3 {
		t.Fatalf("result = %+v, want 3 passing tests (failed: %+v)", counts, counts.FailedTests)
	}

	env, err := os.ReadFile(filepath.Join(opts.OutputPath, "environment.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(env)) != "test" {
		t.Errorf("build environment = %q, want test", env)
	}
}

func TestEmberAppRun_Twice(t *testing.T) {
	t.Parallel()
	root := copyFixture(t, "ember-app")

	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		cmd, opts := newCommand(t, proj)
		result, err := cmd.Run(context.Background(), opts)
		if err != nil {
			t.Fatalf("run %d: Run() error = %v", i+1, err)
		}
		if !result.Passed() {
			t.Fatalf("run %d: result did not pass: %+v", i+1, result.Counts())
		}
	}

	index, err := os.ReadFile(filepath.Join(root, "tmp", "nw-test", "tests", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(index), "<base"); n != 1 {
		t.Errorf("index.html has %d base elements, want 1:\n%s", n, index)
	}
}

func TestEmberAppRun_CustomEnvironmentAndOutput(t *testing.T) {
	t.Parallel()
	root := copyFixture(t, "ember-app")
	writeFile(t, filepath.Join(root, "nwtest.json"), `{
		"environment": "development",
		"output_path": "dist-nw",
		"node_path": "sh",
		"runner_path": "runner.sh",
		"build": {"command": "sh ./build.sh ${output_path} ${environment}"}
	}`)

	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatal(err)
	}
	cmd, opts := newCommand(t, proj)

	result, err := cmd.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Passed() {
		t.Errorf("result did not pass: %+v", result.Counts())
	}

	env, err := os.ReadFile(filepath.Join(root, "dist-nw", "environment.txt"))
	if err != nil {
		t.Fatalf("custom output path not used: %v", err)
	}
	if strings.TrimSpace(string(env)) != "development" {
		t.Errorf("build environment = %q, want development", env)
	}
}

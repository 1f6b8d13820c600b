// Package build runs the project's build step.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/project"
	"github.com/AndreyAkinshin/nwtest/internal/shell"
)

// Options are the per-invocation inputs of a build.
type Options struct {
	OutputPath  string            // absolute destination directory
	Environment string            // build environment, e.g. "test"
	ProjectRoot string            // absolute project root; the build runs here
	Env         map[string]string // extra environment, wins over Task-level env
}

// Task produces the build output in Options.OutputPath.
type Task interface {
	Run(ctx context.Context, opts Options) error
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context, opts Options) error

// Run calls f(ctx, opts).
func (f TaskFunc) Run(ctx context.Context, opts Options) error {
	return f(ctx, opts)
}

// ShellTask runs a build command through the platform shell.
//
// The command may reference ${output_path}, ${environment} and
// ${project_root}; each value is substituted as one quoted shell word, so
// placeholders must not be wrapped in quotes. $${name} yields a literal
// ${name}. The project's
// node_modules/.bin is put first on PATH, the same way npm scripts run.
type ShellTask struct {
	Command string
	Env     map[string]string
	Out     *output.Writer
}

// Run executes the build command. It fails with an environment error when
// the command's executable or package.json script does not exist, and with
// a runtime error when the command exits non-zero.
func (t *ShellTask) Run(ctx context.Context, opts Options) error {
	cmdStr := shell.Interpolate(t.Command, map[string]string{
		"output_path":  shell.Quote(opts.OutputPath),
		"environment":  shell.Quote(opts.Environment),
		"project_root": shell.Quote(opts.ProjectRoot),
	})

	binDir := filepath.Join(opts.ProjectRoot, "node_modules", ".bin")
	if name := shell.CommandName(cmdStr); name != "" && !isAvailable(name, binDir) {
		return nwerrors.Environmentf("build command %q: %s not found (is it installed?)", cmdStr, name)
	}
	if err := checkScript(cmdStr, opts.ProjectRoot); err != nil {
		return err
	}

	t.Out.Debug("running %s in %s", cmdStr, opts.ProjectRoot)

	cmd := shell.Command(ctx, cmdStr)
	cmd.Dir = opts.ProjectRoot
	cmd.Stdout = t.Out.Stdout()
	cmd.Stderr = t.Out.Stderr()
	cmd.Env = shell.Environ(os.Environ(), t.environment(binDir, opts.Env))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return nwerrors.StepError("build", fmt.Sprintf("%q exited with code %d", cmdStr, exitErr.ExitCode()), err)
		}
		return nwerrors.StepError("build", fmt.Sprintf("%q failed: %v", cmdStr, err), err)
	}
	return nil
}

// environment merges task-level and invocation env over a PATH that starts
// with binDir.
func (t *ShellTask) environment(binDir string, extra map[string]string) map[string]string {
	env := make(map[string]string, len(t.Env)+len(extra)+1)
	env["PATH"] = binDir + string(os.PathListSeparator) + os.Getenv("PATH")
	for k, v := range t.Env {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

func isAvailable(name, binDir string) bool {
	candidates := []string{name}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, name+".cmd", name+".exe")
	}
	for _, c := range candidates {
		if info, err := os.Stat(filepath.Join(binDir, c)); err == nil && !info.IsDir() {
			return true
		}
	}
	return shell.IsAvailable(name)
}

// checkScript reports a package manager invocation of a script that
// package.json does not define. A missing or unreadable manifest is left
// for the package manager to report.
func checkScript(cmdStr, root string) error {
	pm, script := project.ScriptName(cmdStr)
	if script == "" {
		return nil
	}
	pkg, err := project.LoadPackageJSON(root)
	if err != nil {
		return nil
	}
	if !pkg.HasScript(script) {
		return nwerrors.Environmentf("build command %q: %s script %q not found in package.json", cmdStr, pm, script)
	}
	return nil
}

package harness

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/AndreyAkinshin/nwtest/internal/output"
	"github.com/AndreyAkinshin/nwtest/internal/shell"
	"github.com/AndreyAkinshin/nwtest/internal/testparser"
)

// maxLineSize bounds a single line of launcher output. Runners that dump
// serialized diagnostics on one line can exceed bufio's 64 KiB default.
const maxLineSize = 1 << 20

// launcherWaitDelay bounds how long Wait keeps copying output after the
// launcher exited or was killed.
const launcherWaitDelay = 5 * time.Second

// Task runs a test launch configuration.
type Task interface {
	Run(ctx context.Context, cfg Config) (*Result, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context, cfg Config) (*Result, error)

// Run calls f(ctx, cfg).
func (f TaskFunc) Run(ctx context.Context, cfg Config) (*Result, error) {
	return f(ctx, cfg)
}

// Runner is the built-in Task. It runs the selected launchers one after
// another in the configuration's cwd and stops at the first launcher that
// fails to complete.
type Runner struct {
	Mode     Mode
	Timeout  time.Duration     // per launcher; zero means no limit
	Env      map[string]string // extra environment for launcher processes
	Registry *testparser.Registry
	Out      *output.Writer
}

// NewRunner creates a Runner in CI mode with the built-in parsers.
func NewRunner(out *output.Writer) *Runner {
	return &Runner{
		Mode:     ModeCI,
		Registry: testparser.NewRegistry(),
		Out:      out,
	}
}

// Run executes the launchers selected by r.Mode.
//
// The returned Result holds every launcher that ran, including the one that
// failed. A launcher that exits non-zero or violates its protocol produces
// an error alongside the partial result; failing tests in an otherwise clean
// run do not, and are reported through Result.Passed.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	mode := r.Mode
	if mode == "" {
		mode = ModeCI
	}
	if err := cfg.Validate(mode, r.Registry); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, name := range cfg.Selected(mode) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		lr, err := r.runLauncher(ctx, cfg.Cwd, name, cfg.Launchers[name])
		result.Launchers = append(result.Launchers, lr)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *Runner) runLauncher(ctx context.Context, cwd, name string, l Launcher) (LauncherResult, error) {
	lr := LauncherResult{Name: name, Protocol: l.Protocol}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := shell.Command(ctx, l.Command)
	cmd.Dir = cwd
	cmd.Env = shell.Environ(os.Environ(), r.Env)
	cmd.Stderr = r.Out.Stderr()

	r.Out.Debug("launching %s: %s", name, l.Command)

	var stream testparser.Stream
	var buffered *bytes.Buffer
	parser := r.parserFor(l.Protocol)

	// The launcher's stdout is consumed through a pipe owned by exec so that
	// Wait, bounded by WaitDelay, never hangs on grandchildren that keep the
	// descriptor open after the launcher itself was killed.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.WaitDelay = launcherWaitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return lr, &LauncherError{Launcher: name, ExitCode: -1, Err: err}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		switch p := parser.(type) {
		case nil:
			_, _ = io.Copy(r.Out.Stdout(), pr)
		case testparser.StreamParser:
			stream = p.NewStream()
			r.scanLines(name, pr, stream.Feed)
		default:
			buffered = &bytes.Buffer{}
			r.scanLines(name, pr, func(line string) {
				buffered.WriteString(line)
				buffered.WriteByte('\n')
			})
		}
	}()

	waitErr := cmd.Wait()
	_ = pw.Close()
	<-done
	lr.Duration = time.Since(start)

	switch {
	case stream != nil:
		lr.Counts = stream.Counts()
		if tap, ok := stream.(*testparser.TAPStream); ok && tap.Version() > 0 {
			r.Out.Debug("%s: TAP version %d", name, tap.Version())
		}
	case buffered != nil:
		lr.Counts = parser.Parse(buffered.String())
	}

	if waitErr != nil {
		return lr, r.launcherError(ctx, name, waitErr, &lr)
	}

	if stream != nil {
		if err := stream.Err(); err != nil {
			return lr, &ProtocolError{Launcher: name, Err: err}
		}
	}
	if parser != nil && !lr.Counts.Parsed {
		return lr, &ProtocolError{Launcher: name, Err: errors.New("no test results found in output")}
	}
	return lr, nil
}

// scanLines reads r line by line, echoing each line and passing it to fn.
// Reading continues past an over-long line so the child never blocks on a
// full pipe.
func (r *Runner) scanLines(name string, rd io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		r.Out.TAPLine(name, line)
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		r.Out.WarningSimple("launcher %q: %v; remaining output discarded", name, err)
		_, _ = io.Copy(io.Discard, rd)
	}
}

func (r *Runner) parserFor(protocol string) testparser.Parser {
	if strings.EqualFold(protocol, ProtocolProcess) || r.Registry == nil {
		return nil
	}
	return r.Registry.GetParser(protocol)
}

func (r *Runner) launcherError(ctx context.Context, name string, waitErr error, lr *LauncherResult) error {
	lerr := &LauncherError{Launcher: name, ExitCode: -1, Err: waitErr}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		lerr.ExitCode = exitErr.ExitCode()
	}
	lr.ExitCode = lerr.ExitCode

	if errors.Is(ctx.Err(), context.DeadlineExceeded) && r.Timeout > 0 {
		lerr.Timeout = r.Timeout
	}
	return lerr
}

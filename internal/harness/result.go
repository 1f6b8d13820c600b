package harness

import (
	"fmt"
	"time"

	"github.com/AndreyAkinshin/nwtest/internal/testparser"
)

// LauncherResult is the outcome of running one launcher.
type LauncherResult struct {
	Name     string
	Protocol string
	Counts   testparser.TestCounts
	ExitCode int
	Duration time.Duration
}

// Passed reports whether the launcher exited cleanly without failed tests.
func (r LauncherResult) Passed() bool {
	return r.ExitCode == 0 && r.Counts.Failed == 0
}

// Result is the outcome of a harness run.
type Result struct {
	Launchers []LauncherResult
}

// Counts aggregates the test counts of all launchers.
func (r *Result) Counts() testparser.TestCounts {
	var total testparser.TestCounts
	if r == nil {
		return total
	}
	for i := range r.Launchers {
		total.Add(&r.Launchers[i].Counts)
	}
	return total
}

// Passed reports whether every launcher passed.
// A result without launchers has not passed.
func (r *Result) Passed() bool {
	if r == nil || len(r.Launchers) == 0 {
		return false
	}
	for _, l := range r.Launchers {
		if !l.Passed() {
			return false
		}
	}
	return true
}

// LauncherError reports a launcher process that did not complete successfully.
type LauncherError struct {
	Launcher string
	ExitCode int           // -1 if the process did not exit normally
	Timeout  time.Duration // non-zero if the launcher was stopped by the timeout
	Err      error
}

func (e *LauncherError) Error() string {
	switch {
	case e.Timeout > 0:
		return fmt.Sprintf("launcher %q timed out after %s", e.Launcher, e.Timeout)
	case e.ExitCode > 0:
		return fmt.Sprintf("launcher %q exited with code %d", e.Launcher, e.ExitCode)
	default:
		return fmt.Sprintf("launcher %q failed: %v", e.Launcher, e.Err)
	}
}

func (e *LauncherError) Unwrap() error {
	return e.Err
}

// ProtocolError reports launcher output that violated its protocol.
type ProtocolError struct {
	Launcher string
	Err      error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("launcher %q: %v", e.Launcher, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

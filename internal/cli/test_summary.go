package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AndreyAkinshin/nwtest/internal/harness"
	"github.com/AndreyAkinshin/nwtest/internal/testparser"
)

// cmdTestSummary parses TAP output and prints a summary.
func cmdTestSummary(args []string) int {
	if wantsHelp(args) {
		printTestSummaryUsage()
		return 0
	}
	if len(args) > 1 {
		out.ErrorPrefix("test-summary: unexpected argument %q", args[1])
		return 2
	}

	var input io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			out.ErrorPrefix("test-summary: %v", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	counts, streamErr, err := summarizeTAP(input)
	if err != nil {
		out.ErrorPrefix("test-summary: %v", err)
		return 1
	}
	if !counts.Parsed {
		out.ErrorPrefix("test-summary: no test results found in input")
		out.Hint("expected TAP output, e.g. from 'testem ci' or an NW.js runner")
		return 1
	}

	printCountsSummary(&counts)

	if streamErr != nil {
		out.ErrorPrefix("test-summary: %v", streamErr)
		return 1
	}
	if counts.Failed > 0 {
		return 1
	}
	return 0
}

// summarizeTAP feeds r through a TAP stream. streamErr reports protocol
// violations (bail out, plan mismatch); err reports read failures.
func summarizeTAP(r io.Reader) (counts testparser.TestCounts, streamErr, err error) {
	stream := (&testparser.TAPParser{}).NewStream()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		stream.Feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return testparser.TestCounts{}, nil, err
	}
	return stream.Counts(), stream.Err(), nil
}

// printTestSummary prints the outcome of an nw:test run: a line per
// launcher followed by the aggregated counts.
func printTestSummary(result *harness.Result) {
	out.Println("")
	out.SummaryHeader("Launchers")
	for _, l := range result.Launchers {
		status := fmt.Sprintf("%d passed, %d failed (%s)", l.Counts.Passed, l.Counts.Failed, l.Duration.Round(time.Millisecond))
		switch {
		case l.ExitCode != 0:
			out.SummaryFailed(l.Name, fmt.Sprintf("exit code %d, %s", l.ExitCode, status))
		case !l.Passed():
			out.SummaryFailed(l.Name, status)
		default:
			out.SummaryPassed(l.Name, status)
		}
	}

	counts := result.Counts()
	printCountsSummary(&counts)
}

// printCountsSummary prints a formatted test summary.
func printCountsSummary(counts *testparser.TestCounts) {
	out.SummaryHeader("Test Summary")

	out.SummaryPassed("Passed", fmt.Sprintf("%d", counts.Passed))
	if counts.Failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", counts.Failed))
	}
	if counts.Skipped > 0 {
		out.SummaryItem("Skipped", fmt.Sprintf("%d", counts.Skipped))
	}
	if counts.Todo > 0 {
		out.SummaryItem("Todo", fmt.Sprintf("%d", counts.Todo))
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", counts.Total))

	if len(counts.FailedTests) > 0 {
		out.Println("")
		out.SummarySectionLabel("Failed Tests:")
		for _, ft := range counts.FailedTests {
			out.SummaryFailed("  "+ft.Name, ft.Reason)
		}
	}

	if counts.Failed == 0 {
		out.FinalSuccess("All %d tests passed.", counts.Total)
	} else {
		out.FinalFailure("%d of %d tests failed.", counts.Failed, counts.Total)
	}
}

func printTestSummaryUsage() {
	out.HelpTitle("nwtest test-summary - parse and summarize TAP output")
	out.HelpSection("Usage:")
	out.HelpUsage("nwtest test-summary [file]")
	out.HelpUsage("testem ci 2>&1 | nwtest test-summary")
	out.HelpSection("Description:")
	out.Println("  Reads TAP from a file, or stdin when no file or - is given, and prints")
	out.Println("  a summary of the results with the reasons of failed tests.")
	out.Println("  Exits 1 when a test failed or the stream bailed out.")
	out.HelpSection("Examples:")
	out.HelpExample("nwtest test-summary results.tap", "Parse from file")
	out.HelpExample("cat results.tap | nwtest test-summary -", "Parse from stdin")
	out.Println("")
}

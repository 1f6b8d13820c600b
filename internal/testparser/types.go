// Package testparser provides test output parsing for launcher protocols.
package testparser

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string // Test name (e.g., "acceptance | login renders")
	Reason string // Failure reason/error message
}

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed      int
	Failed      int
	Skipped     int
	Todo        int          // test points marked TODO, passing or not
	Total       int
	Planned     int          // count from the plan line, -1 if no plan was seen
	Parsed      bool         // true if counts were successfully extracted
	FailedTests []FailedTest // details of failed tests
}

// Add adds another TestCounts to this one, aggregating the counts.
// The Parsed flag uses "sticky true" semantics: if any added TestCounts
// has Parsed=true, the aggregate will have Parsed=true. This means
// Parsed indicates "at least one result was successfully parsed",
// not "all results were parsed".
//
// Planned is not aggregated; it only describes a single stream.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Todo += other.Todo
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}

// Parser defines the interface for test output parsers.
type Parser interface {
	// Parse extracts test counts from the complete protocol output.
	Parse(output string) TestCounts
	// Name returns the name of the parser.
	Name() string
}

// Stream consumes protocol output one line at a time.
type Stream interface {
	// Feed processes a single line, without its trailing newline.
	Feed(line string)
	// Counts returns the counts accumulated so far.
	Counts() TestCounts
	// Err reports protocol violations seen in the stream.
	// It is only meaningful once all output has been fed.
	Err() error
}

// StreamParser is a Parser that can also parse incrementally.
type StreamParser interface {
	Parser
	NewStream() Stream
}

package testparser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Static regexes for TAP output parsing.
// Compiled once at package init for performance.
var (
	tapVersionRegex = regexp.MustCompile(`^TAP version (\d+)$`)
	tapPlanRegex    = regexp.MustCompile(`^1\.\.(\d+)(?:\s*#\s*(.*))?$`)
	tapTestRegex    = regexp.MustCompile(`^(not ok|ok)(?:\s+(\d+))?(?:\s+-)?(?:\s+([^#]*[^#\s]))?(?:\s*#\s*(.*))?$`)
	tapBailOutRegex = regexp.MustCompile(`^Bail out!\s*(.*)$`)
)

// TAP protocol violations reported by TAPStream.Err.
var (
	ErrBailOut       = errors.New("tap: bail out")
	ErrPlanMismatch  = errors.New("tap: plan mismatch")
	ErrDuplicatePlan = errors.New("tap: duplicate plan")
)

// maxReasonLen keeps failure reasons readable in summary output.
const maxReasonLen = 80

// TAPParser parses Test Anything Protocol output.
type TAPParser struct{}

// Name returns the parser name.
func (p *TAPParser) Name() string {
	return "tap"
}

// Parse extracts test counts from TAP output.
// TAP producers emit lines like:
//
//	TAP version 13
//	ok 1 - login | renders the form
//	not ok 2 - login | rejects bad passwords
//	  ---
//	  message: "expected 401, got 200"
//	  ...
//	ok 3 - slow # SKIP needs network
//	1..3
func (p *TAPParser) Parse(output string) TestCounts {
	s := p.NewStream()
	for _, line := range strings.Split(output, "\n") {
		s.Feed(line)
	}
	return s.Counts()
}

// NewStream returns an incremental TAP parser.
func (p *TAPParser) NewStream() Stream {
	return &TAPStream{counts: TestCounts{Planned: -1}, lastFailed: -1}
}

// TAPStream parses TAP output line by line.
// The zero value is not ready for use; create one with TAPParser.NewStream.
type TAPStream struct {
	counts  TestCounts
	version int
	planErr error
	bailOut string
	bailed  bool

	// YAML diagnostic block state. A block belongs to the test point
	// immediately preceding it.
	inYAML     bool
	yamlIndent string
	yamlLines  []string
	lastFailed int // index into counts.FailedTests, -1 if the last point passed
}

// Feed processes a single line of TAP output.
func (s *TAPStream) Feed(line string) {
	line = strings.TrimRight(line, "\r")

	if s.bailed {
		return
	}

	if s.inYAML {
		s.feedYAML(line)
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	// Indented content is either a diagnostic block or subtest output.
	// Subtests are summarized by their parent test point, so only the
	// diagnostic block start matters here.
	if indent := leadingWhitespace(line); indent != "" {
		if trimmed == "---" && s.counts.Total > 0 {
			s.inYAML = true
			s.yamlIndent = indent
			s.yamlLines = s.yamlLines[:0]
		}
		return
	}

	if m := tapTestRegex.FindStringSubmatch(trimmed); m != nil {
		s.feedTestPoint(m)
		return
	}

	if m := tapPlanRegex.FindStringSubmatch(trimmed); m != nil {
		s.feedPlan(m)
		return
	}

	if m := tapBailOutRegex.FindStringSubmatch(trimmed); m != nil {
		s.bailed = true
		s.bailOut = m[1]
		s.counts.Parsed = true
		return
	}

	if m := tapVersionRegex.FindStringSubmatch(trimmed); m != nil {
		s.version, _ = strconv.Atoi(m[1])
		return
	}

	// Comments and unknown lines are ignored per the protocol.
}

func (s *TAPStream) feedTestPoint(m []string) {
	ok := m[1] == "ok"
	description := strings.TrimSpace(m[3])
	directive := strings.ToUpper(strings.TrimSpace(m[4]))

	s.counts.Total++
	s.counts.Parsed = true
	s.lastFailed = -1

	switch {
	case strings.HasPrefix(directive, "TODO"):
		s.counts.Todo++
	case strings.HasPrefix(directive, "SKIP"):
		s.counts.Skipped++
	case ok:
		s.counts.Passed++
	default:
		s.counts.Failed++
		name := description
		if name == "" {
			name = "test " + m[2]
			if m[2] == "" {
				name = fmt.Sprintf("test %d", s.counts.Total)
			}
		}
		s.counts.FailedTests = append(s.counts.FailedTests, FailedTest{Name: name})
		s.lastFailed = len(s.counts.FailedTests) - 1
	}
}

func (s *TAPStream) feedPlan(m []string) {
	n, _ := strconv.Atoi(m[1])
	if s.counts.Planned >= 0 {
		s.planErr = fmt.Errorf("%w: 1..%d after 1..%d", ErrDuplicatePlan, n, s.counts.Planned)
		return
	}
	s.counts.Planned = n
	s.counts.Parsed = true
}

func (s *TAPStream) feedYAML(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "..." && strings.HasPrefix(line, s.yamlIndent) {
		s.inYAML = false
		s.applyDiagnostics()
		return
	}
	s.yamlLines = append(s.yamlLines, strings.TrimPrefix(line, s.yamlIndent))
}

// applyDiagnostics decodes the finished YAML block and attaches its
// message to the failed test it follows. Undecodable blocks are ignored;
// diagnostics are informational only.
func (s *TAPStream) applyDiagnostics() {
	if s.lastFailed < 0 || len(s.yamlLines) == 0 {
		return
	}

	var diag map[string]interface{}
	if err := yaml.Unmarshal([]byte(strings.Join(s.yamlLines, "\n")), &diag); err != nil {
		return
	}

	reason := diagnosticReason(diag)
	if reason == "" {
		return
	}
	s.counts.FailedTests[s.lastFailed].Reason = truncateReason(reason)
}

// diagnosticReason picks the most useful human-readable field of a
// diagnostic block. QUnit/testem emit "message"; node-tap emits "error".
func diagnosticReason(diag map[string]interface{}) string {
	for _, key := range []string{"message", "error", "stack"} {
		if v, ok := diag[key]; ok {
			switch val := v.(type) {
			case string:
				return strings.TrimSpace(firstLine(val))
			case map[string]interface{}:
				if msg, ok := val["message"].(string); ok {
					return strings.TrimSpace(firstLine(msg))
				}
			}
		}
	}
	return ""
}

// Counts returns the counts accumulated so far.
func (s *TAPStream) Counts() TestCounts {
	counts := s.counts
	counts.FailedTests = append([]FailedTest(nil), s.counts.FailedTests...)
	return counts
}

// Err reports protocol violations: a bail out, a duplicate plan, or a plan
// that does not match the number of test points seen.
// A stream without any plan is accepted.
func (s *TAPStream) Err() error {
	if s.bailed {
		if s.bailOut == "" {
			return ErrBailOut
		}
		return fmt.Errorf("%w: %s", ErrBailOut, s.bailOut)
	}
	if s.planErr != nil {
		return s.planErr
	}
	if s.counts.Planned >= 0 && s.counts.Planned != s.counts.Total {
		return fmt.Errorf("%w: planned %d tests, ran %d", ErrPlanMismatch, s.counts.Planned, s.counts.Total)
	}
	return nil
}

// Version returns the TAP version declared by the producer, or 0 if none.
func (s *TAPStream) Version() int {
	return s.version
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

func truncateReason(reason string) string {
	if len(reason) <= maxReasonLen {
		return reason
	}
	cut := maxReasonLen - 3
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut] + "..."
}

package output

import (
	"strings"
	"testing"
)

func TestWriter_TAPLine(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.TAPLine("NW.js", "ok 1 - renders")

	if got := stdout.String(); got != "ok 1 - renders\n" {
		t.Errorf("TAPLine() = %q, want %q", got, "ok 1 - renders\n")
	}
}

func TestWriter_TAPLine_VerbosePrefixesLauncher(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetVerbose(true)

	w.TAPLine("NW.js", "not ok 2 - fails")

	if got := stdout.String(); got != "[NW.js] not ok 2 - fails\n" {
		t.Errorf("TAPLine() = %q", got)
	}
}

func TestWriter_TAPLine_Quiet(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetQuiet(true)

	w.TAPLine("NW.js", "ok 1 - renders")

	if got := stdout.String(); got != "" {
		t.Errorf("TAPLine() in quiet mode = %q, want empty", got)
	}
}

func TestHighlightTAP_PreservesText(t *testing.T) {
	lines := []string{
		"ok 1 - passes",
		"not ok 2 - fails",
		"ok 3 - later # SKIP not ready",
		"1..3",
		"# tests 3",
		"Bail out! NW.js crashed",
		"TAP version 13",
	}

	for _, line := range lines {
		if got := highlightTAP(line); !strings.Contains(got, line) {
			t.Errorf("highlightTAP(%q) = %q, want original text preserved", line, got)
		}
	}
}

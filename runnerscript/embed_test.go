package runnerscript

import (
	"bytes"
	"testing"
)

func TestScript(t *testing.T) {
	t.Parallel()
	if len(Script) == 0 {
		t.Fatal("embedded runner script is empty")
	}
	for _, arg := range []string{"--nw-path", "nw-path", "tests-path"} {
		if !bytes.Contains(Script, []byte(arg)) {
			t.Errorf("runner script does not handle %s", arg)
		}
	}
}

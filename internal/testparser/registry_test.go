package testparser

import "testing"

func TestRegistry(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	for _, protocol := range []string{"tap", "TAP", "tap13", "tap14"} {
		t.Run(protocol, func(t *testing.T) {
			t.Parallel()
			parser := registry.GetParser(protocol)
			if parser == nil {
				t.Fatalf("GetParser(%s): got nil, want parser", protocol)
			}
			if parser.Name() != "tap" {
				t.Errorf("GetParser(%s).Name(): got %s, want tap", protocol, parser.Name())
			}
			if _, ok := parser.(StreamParser); !ok {
				t.Errorf("GetParser(%s) does not support streaming", protocol)
			}
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	if parser := registry.GetParser("browser"); parser != nil {
		t.Errorf("GetParser(browser): got %v, want nil", parser)
	}
}

type stubParser struct{}

func (stubParser) Parse(string) TestCounts { return TestCounts{Parsed: true} }
func (stubParser) Name() string            { return "stub" }

func TestRegistry_RegisterParser(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	registry.RegisterParser("Custom", stubParser{})

	parser := registry.GetParser("custom")
	if parser == nil || parser.Name() != "stub" {
		t.Fatalf("GetParser(custom) = %v, want stub parser", parser)
	}
}

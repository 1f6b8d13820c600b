// Package harness runs test launchers and collects their results.
//
// A launch configuration names one or more launchers, each a shell command
// plus the line protocol its stdout speaks. The configuration keys follow
// testem's (cwd, launchers, launch_in_ci, launch_in_dev) so the same
// configuration can be written out for an external testem if needed.
package harness

import (
	"sort"
	"strings"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/testparser"
)

// Mode selects which launcher list a run uses.
type Mode string

const (
	// ModeCI runs the launchers listed in launch_in_ci.
	ModeCI Mode = "ci"
	// ModeDev runs the launchers listed in launch_in_dev.
	ModeDev Mode = "dev"
)

// ParseMode converts a string to a Mode.
// Returns false if the string is not a valid mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeCI, ModeDev:
		return Mode(s), true
	}
	return "", false
}

// Protocols understood by the runner besides those in the parser registry.
const (
	// ProtocolTAP launchers print TAP on stdout.
	ProtocolTAP = testparser.ProtocolTAP
	// ProtocolProcess launchers are judged by exit status alone.
	ProtocolProcess = "process"
)

// Launcher is a named external process that executes tests.
type Launcher struct {
	Command  string `json:"command"`
	Protocol string `json:"protocol"`
}

// Config is a test launch configuration.
type Config struct {
	Cwd         string              `json:"cwd"`
	Launchers   map[string]Launcher `json:"launchers"`
	LaunchInCI  []string            `json:"launch_in_ci"`
	LaunchInDev []string            `json:"launch_in_dev"`
}

// Selected returns the launcher names to run in the given mode.
func (c Config) Selected(mode Mode) []string {
	if mode == ModeDev {
		return c.LaunchInDev
	}
	return c.LaunchInCI
}

// Validate checks that the configuration can be run in the given mode.
// Protocols are checked against the registry; "process" is always accepted.
func (c Config) Validate(mode Mode, registry *testparser.Registry) error {
	if strings.TrimSpace(c.Cwd) == "" {
		return nwerrors.Config("launch configuration: cwd is required")
	}

	selected := c.Selected(mode)
	if len(selected) == 0 {
		return nwerrors.Configf("launch configuration: no launchers selected for %s mode", mode)
	}

	for _, name := range selected {
		l, ok := c.Launchers[name]
		if !ok {
			return nwerrors.Configf("launch configuration: launcher %q is selected but not defined (defined: %s)",
				name, strings.Join(c.launcherNames(), ", "))
		}
		if strings.TrimSpace(l.Command) == "" {
			return nwerrors.Configf("launch configuration: launcher %q has no command", name)
		}
		if !isKnownProtocol(l.Protocol, registry) {
			return nwerrors.Configf("launch configuration: launcher %q uses unknown protocol %q", name, l.Protocol)
		}
	}
	return nil
}

func (c Config) launcherNames() []string {
	names := make([]string, 0, len(c.Launchers))
	for name := range c.Launchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isKnownProtocol(protocol string, registry *testparser.Registry) bool {
	if strings.EqualFold(protocol, ProtocolProcess) {
		return true
	}
	return registry != nil && registry.GetParser(protocol) != nil
}

package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTAPPass    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleTAPFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleTAPSkip    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleTAPComment = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	styleTAPPlan    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// TAPLine echoes one line of TAP output from a launcher.
// Lines are highlighted by kind when color is enabled; quiet mode suppresses them.
func (w *Writer) TAPLine(launcher, line string) {
	if w.quiet {
		return
	}
	if w.color {
		line = highlightTAP(line)
	}
	if launcher != "" && w.verbose {
		w.Println("[%s] %s", launcher, line)
		return
	}
	w.Println("%s", line)
}

// highlightTAP applies coloring to a single line of TAP output.
// The prefix is checked on the trimmed line so indentation is preserved.
func highlightTAP(line string) string {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "not ok"):
		return styleTAPFail.Render(line)
	case strings.HasPrefix(trimmed, "ok"):
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "# skip") || strings.Contains(lower, "# todo") {
			return styleTAPSkip.Render(line)
		}
		return styleTAPPass.Render(line)
	case strings.HasPrefix(trimmed, "1.."):
		return styleTAPPlan.Render(line)
	case strings.HasPrefix(trimmed, "Bail out!"):
		return styleTAPFail.Render(line)
	case strings.HasPrefix(trimmed, "#"):
		return styleTAPComment.Render(line)
	}
	return line
}

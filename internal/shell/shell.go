// Package shell builds platform shell invocations for build and launcher commands.
package shell

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

// varPattern matches ${name} placeholders.
var varPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// psSafe matches PowerShell arguments that need no quoting.
var psSafe = regexp.MustCompile(`^[\w+=:,./\\-]+$`)

// escapePlaceholder temporarily replaces $${ so escaped variables survive interpolation.
const escapePlaceholder = "\x00ESCAPED_VAR\x00"

// Command creates a cross-platform shell command.
// On Windows, uses full path to PowerShell.
// On Unix, uses sh -c.
func Command(ctx context.Context, cmdStr string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return windowsCommand(ctx, cmdStr)
	}
	return exec.CommandContext(ctx, "sh", "-c", cmdStr)
}

// windowsCommand creates a PowerShell command using the full path so that
// shims earlier in PATH cannot intercept it.
func windowsCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	systemRoot := os.Getenv("SYSTEMROOT")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	powershellPath := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	return exec.CommandContext(ctx, powershellPath, "-NoProfile", "-NonInteractive", "-Command", cmdStr)
}

// Environ returns base with overrides appended.
// Later entries win when the same key appears twice, so overrides take
// precedence over base. Keys are appended in sorted order for
// reproducible child environments.
func Environ(base []string, overrides map[string]string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	env = append(env, base...)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}

// Interpolate replaces ${name} placeholders with values from vars.
// Unknown placeholders are kept as-is; $${name} produces a literal ${name}.
func Interpolate(cmd string, vars map[string]string) string {
	result := strings.ReplaceAll(cmd, "$${", escapePlaceholder)

	result = varPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})

	return strings.ReplaceAll(result, escapePlaceholder, "${")
}

// Quote returns s as a single word for the platform shell.
// Strings made only of safe characters are returned unchanged.
func Quote(s string) string {
	if runtime.GOOS == "windows" {
		return powershellQuote(s)
	}
	return shellescape.Quote(s)
}

func powershellQuote(s string) string {
	if psSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CommandName extracts the executable name (first word) from a shell command string.
// For example, "ember build --environment=test" returns "ember".
// Returns empty string for commands that start with quotes or variable
// assignments, which the shell interprets directly.
func CommandName(cmdStr string) string {
	trimmed := strings.TrimSpace(cmdStr)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' || trimmed[0] == '\'' {
		return ""
	}
	name := strings.Fields(trimmed)[0]
	if strings.Contains(name, "=") {
		return ""
	}
	return name
}

// IsAvailable checks if a command is available in PATH.
// Returns true for shell builtins (which are always available via the shell).
func IsAvailable(cmdName string) bool {
	if isBuiltin(cmdName) {
		return true
	}
	_, err := exec.LookPath(cmdName)
	return err == nil
}

// builtins is the set of common shell builtins that don't exist as
// external commands in PATH but are always available via sh -c.
var builtins = map[string]struct{}{
	"exit":    {},
	"test":    {},
	"[":       {},
	"echo":    {},
	"cd":      {},
	"pwd":     {},
	"export":  {},
	"unset":   {},
	"set":     {},
	"true":    {},
	"false":   {},
	"eval":    {},
	"exec":    {},
	"source":  {},
	".":       {},
	"command": {},
	"printf":  {},
	"type":    {},
	"trap":    {},
	"wait":    {},
}

func isBuiltin(cmdName string) bool {
	_, ok := builtins[cmdName]
	return ok
}

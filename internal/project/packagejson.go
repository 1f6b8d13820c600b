package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageJSON represents the relevant parts of a package.json file.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// LoadPackageJSON reads and parses package.json from dir.
func LoadPackageJSON(dir string) (*PackageJSON, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &pkg, nil
}

// HasScript reports whether the manifest defines the named script.
func (p *PackageJSON) HasScript(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Scripts[name]
	return ok
}

// packageManagers lists package managers whose commands name scripts.
var packageManagers = map[string]bool{
	"npm":  true,
	"pnpm": true,
	"yarn": true,
	"bun":  true,
}

// packageManagerBuiltins lists subcommands that never refer to a script.
var packageManagerBuiltins = map[string]map[string]bool{
	"npm":  {"install": true, "i": true, "ci": true, "exec": true, "x": true, "help": true, "version": true},
	"pnpm": {"install": true, "i": true, "add": true, "exec": true, "dlx": true, "help": true},
	"yarn": {"install": true, "add": true, "exec": true, "dlx": true, "help": true},
	"bun":  {"install": true, "i": true, "add": true, "x": true, "pm": true, "upgrade": true},
}

// ScriptName extracts the package manager and script name from a command string.
// Returns ("", "") if the command is not a package manager script invocation.
// Examples:
//   - "npm run build:test" -> ("npm", "build:test")
//   - "npm test" -> ("npm", "test")
//   - "yarn build" -> ("yarn", "build")
//   - "npm install" -> ("npm", "")
//   - "ember build" -> ("", "")
func ScriptName(cmdStr string) (packageManager string, script string) {
	fields := strings.Fields(cmdStr)
	if len(fields) < 2 {
		return "", ""
	}

	pm := fields[0]
	if !packageManagers[pm] {
		return "", ""
	}

	sub := fields[1]
	if packageManagerBuiltins[pm][sub] || strings.HasPrefix(sub, "-") {
		return pm, ""
	}

	if sub == "run" || sub == "run-script" {
		if len(fields) < 3 || strings.HasPrefix(fields[2], "-") {
			return pm, ""
		}
		return pm, fields[2]
	}

	if pm == "npm" {
		switch sub {
		case "test", "start", "stop", "restart":
			return pm, sub
		}
		return pm, ""
	}

	// pnpm, yarn and bun treat an unknown subcommand as a script name.
	return pm, sub
}

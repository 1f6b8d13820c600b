package project

import (
	"path/filepath"
	"testing"
)

func TestScriptName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cmd        string
		wantPM     string
		wantScript string
	}{
		{"npm run build:test", "npm", "build:test"},
		{"npm run-script build", "npm", "build"},
		{"npm run --silent", "npm", ""},
		{"npm test", "npm", "test"},
		{"npm install", "npm", ""},
		{"npm exec ember build", "npm", ""},
		{"npm ls", "npm", ""},
		{"pnpm build", "pnpm", "build"},
		{"pnpm exec ember build", "pnpm", ""},
		{"yarn build --prod", "yarn", "build"},
		{"yarn --version", "yarn", ""},
		{"bun run build", "bun", "build"},
		{"ember build --environment=test", "", ""},
		{"npm", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		pm, script := ScriptName(tt.cmd)
		if pm != tt.wantPM || script != tt.wantScript {
			t.Errorf("ScriptName(%q) = (%q, %q), want (%q, %q)", tt.cmd, pm, script, tt.wantPM, tt.wantScript)
		}
	}
}

func TestLoadPackageJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFileName), `{
		"name": "my-app",
		"scripts": {"build:test": "ember build -e test"},
		"devDependencies": {"ember-cli": "^6.0.0"}
	}`)

	pkg, err := LoadPackageJSON(dir)
	if err != nil {
		t.Fatalf("LoadPackageJSON() error = %v", err)
	}
	if !pkg.HasScript("build:test") {
		t.Error("HasScript(build:test) = false")
	}
	if pkg.HasScript("lint") {
		t.Error("HasScript(lint) = true")
	}
	if pkg.DevDependencies["ember-cli"] != "^6.0.0" {
		t.Errorf("DevDependencies = %v", pkg.DevDependencies)
	}
}

func TestPackageJSON_HasScript_Nil(t *testing.T) {
	t.Parallel()
	var pkg *PackageJSON
	if pkg.HasScript("build") {
		t.Error("nil manifest reports a script")
	}
}

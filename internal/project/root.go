// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/nwtest/internal/config"
)

// ManifestFileName is the project's dependency manifest.
const ManifestFileName = "package.json"

// ConfigFileName is the optional nwtest configuration file.
const ConfigFileName = config.FileName

// ErrNoProjectRoot is returned when no package.json is found.
var ErrNoProjectRoot = errors.New("package.json not found: not a Node.js project (or any parent up to the root)")

// FindRoot walks up from the current working directory until it finds package.json.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds package.json.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		info, err := os.Stat(filepath.Join(dir, ManifestFileName))
		if err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

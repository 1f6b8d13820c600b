package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/nwtest/internal/config"
	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
)

// Project represents a loaded Node.js project with its nwtest configuration.
type Project struct {
	Root     string
	Config   *config.Config
	Manifest *PackageJSON
	Warnings []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, nwerrors.Environment(err.Error())
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
// nwtest.json is optional. Environment overrides are applied on top of it.
func LoadProjectFrom(root string) (*Project, error) {
	manifest, err := LoadPackageJSON(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nwerrors.Environmentf("%s not found in %s", ManifestFileName, root)
		}
		return nil, nwerrors.Configf("failed to load manifest: %v", err)
	}

	cfg, warnings, err := config.LoadOrDefault(filepath.Join(root, ConfigFileName))
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.LookupEnv)

	return &Project{
		Root:     root,
		Config:   cfg,
		Manifest: manifest,
		Warnings: warnings,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigFileName)
}

// ManifestPath returns the full path to the project's package.json.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.Root, ManifestFileName)
}

// OutputPath returns the absolute build output directory.
// Relative paths are resolved against the project root.
func (p *Project) OutputPath(override string) string {
	out := p.Config.OutputPath
	if override != "" {
		out = override
	}
	if filepath.IsAbs(out) {
		return filepath.Clean(out)
	}
	return filepath.Join(p.Root, out)
}

// String describes the project for verbose output.
func (p *Project) String() string {
	name := p.Manifest.Name
	if name == "" {
		name = filepath.Base(p.Root)
	}
	return fmt.Sprintf("%s (%s)", name, p.Root)
}

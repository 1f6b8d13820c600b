package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
	"github.com/AndreyAkinshin/nwtest/internal/schema"
)

// FileName is the name of the configuration file at the project root.
const FileName = "nwtest.json"

// Load reads and parses an nwtest.json configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the schema, applies
// defaults, validates, and returns warnings.
// All failures map to the configuration exit code.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, configError(path, "failed to read config file", err)
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, nil, configError(path, "schema validation failed", err)
	}

	cfg, warnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, configError(path, "failed to parse config file", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, &nwerrors.NWTestError{
			Kind:    nwerrors.KindValidation,
			Message: fmt.Sprintf("%s: invalid configuration: %v", path, err),
			Cause:   err,
		}
	}

	return cfg, warnings, nil
}

// LoadOrDefault is LoadAndValidate for an optional file: a missing file
// yields the default configuration.
func LoadOrDefault(path string) (*Config, []string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil, nil
	}
	return LoadAndValidate(path)
}

func configError(path, message string, cause error) error {
	return &nwerrors.NWTestError{
		Kind:    nwerrors.KindConfig,
		Message: fmt.Sprintf("%s: %s: %v", path, message, cause),
		Cause:   cause,
	}
}

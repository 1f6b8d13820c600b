package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// envNamePattern matches portable environment variable names.
var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied.
// The JSON schema already covers types; this covers what it cannot.
func Validate(cfg *Config) error {
	if strings.ContainsAny(cfg.Environment, " \t\"'") {
		return &ValidationError{Field: "environment", Message: "must not contain whitespace or quotes"}
	}
	if strings.Contains(cfg.NWPath, `"`) {
		return &ValidationError{Field: "nw_path", Message: "must not contain double quotes"}
	}
	if strings.TrimSpace(cfg.Build.Command) == "" {
		return &ValidationError{Field: "build.command", Message: "must not be blank"}
	}
	if err := validateEnv("build.env", cfg.Build.Env); err != nil {
		return err
	}

	if cfg.Test.Mode != "ci" && cfg.Test.Mode != "dev" {
		return &ValidationError{Field: "test.mode", Message: `must be "ci" or "dev"`}
	}
	if cfg.Test.Timeout < 0 {
		return &ValidationError{Field: "test.timeout", Message: "must not be negative"}
	}
	return validateEnv("test.env", cfg.Test.Env)
}

func validateEnv(field string, env map[string]string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !envNamePattern.MatchString(k) {
			return &ValidationError{
				Field:   fmt.Sprintf("%s.%s", field, k),
				Message: "must match pattern ^[A-Za-z_][A-Za-z0-9_]*$",
			}
		}
	}
	return nil
}

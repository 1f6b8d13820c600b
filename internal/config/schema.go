// Package config provides configuration loading and validation for nwtest.json.
package config

import "time"

// Config represents the complete nwtest.json configuration.
// All fields are optional; applyDefaults fills in what is missing.
type Config struct {
	Schema      string       `json:"$schema,omitempty"`
	OutputPath  string       `json:"output_path,omitempty"`
	Environment string       `json:"environment,omitempty"`
	NWPath      string       `json:"nw_path,omitempty"`
	NodePath    string       `json:"node_path,omitempty"`
	RunnerPath  string       `json:"runner_path,omitempty"`
	Build       *BuildConfig `json:"build,omitempty"`
	Test        *TestConfig  `json:"test,omitempty"`
}

// BuildConfig configures the build step.
type BuildConfig struct {
	Command string            `json:"command,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// TestConfig configures the test step.
type TestConfig struct {
	Timeout int               `json:"timeout,omitempty"` // seconds
	Mode    string            `json:"mode,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// TimeoutDuration returns the per-launcher timeout. Zero means no limit.
func (t *TestConfig) TimeoutDuration() time.Duration {
	if t == nil || t.Timeout <= 0 {
		return 0
	}
	return time.Duration(t.Timeout) * time.Second
}

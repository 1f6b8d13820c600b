package config

// Default configuration values.
const (
	DefaultOutputPath   = "tmp/nw-test"
	DefaultEnvironment  = "test"
	DefaultNWPath       = "nw"
	DefaultNodePath     = "node"
	DefaultTestMode     = "ci"
	DefaultBuildCommand = "ember build --environment=${environment} --output-path=${output_path}"
)

// Environment variables that override configuration values.
const (
	EnvNWPath   = "NWTEST_NW_PATH"
	EnvNodePath = "NWTEST_NODE_PATH"
)

// Default returns a configuration with every default applied,
// used when the project has no nwtest.json.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.NWPath == "" {
		cfg.NWPath = DefaultNWPath
	}
	if cfg.NodePath == "" {
		cfg.NodePath = DefaultNodePath
	}
	applyBuildDefaults(cfg)
	applyTestDefaults(cfg)
}

func applyBuildDefaults(cfg *Config) {
	if cfg.Build == nil {
		cfg.Build = &BuildConfig{}
	}
	if cfg.Build.Command == "" {
		cfg.Build.Command = DefaultBuildCommand
	}
}

func applyTestDefaults(cfg *Config) {
	if cfg.Test == nil {
		cfg.Test = &TestConfig{}
	}
	if cfg.Test.Mode == "" {
		cfg.Test.Mode = DefaultTestMode
	}
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is usually os.LookupEnv; empty values are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvNWPath); ok && v != "" {
		cfg.NWPath = v
	}
	if v, ok := lookup(EnvNodePath); ok && v != "" {
		cfg.NodePath = v
	}
}

// Package nwtest provides public constants for tools that run nwtest, such
// as CI wrappers that branch on its exit status.
package nwtest

// Exit codes returned by the nwtest CLI.
const (
	// ExitSuccess indicates every test passed.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure: the build failed, a test
	// failed, or NW.js exited abnormally.
	ExitFailure = 1

	// ExitConfigError indicates an invalid nwtest.json or invalid flags.
	ExitConfigError = 2

	// ExitEnvError indicates a missing executable, runner script or project.
	ExitEnvError = 3
)

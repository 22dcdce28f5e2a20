package organize

import "autosort/internal/config"

// RunnerFactory is a function that creates a Runner
// This allows for dependency injection in tests
type RunnerFactory func(cfg *config.Config, opts ...Option) Runner

// DefaultRunnerFactory creates a real organizer
var DefaultRunnerFactory RunnerFactory = func(cfg *config.Config, opts ...Option) Runner {
	return New(cfg, opts...)
}

// CurrentRunnerFactory is the currently active factory
// This can be swapped in tests
var CurrentRunnerFactory = DefaultRunnerFactory

// NewRunner creates a runner with the current factory.
func NewRunner(cfg *config.Config, opts ...Option) Runner {
	return CurrentRunnerFactory(cfg, opts...)
}

// SetRunnerFactory sets a custom runner factory for dependency injection
func SetRunnerFactory(factory RunnerFactory) {
	CurrentRunnerFactory = factory
}

// ResetRunnerFactory resets to the default runner factory
func ResetRunnerFactory() {
	CurrentRunnerFactory = DefaultRunnerFactory
}

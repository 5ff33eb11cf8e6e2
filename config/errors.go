package config

import "fmt"

// ConfigError reports a fatal configuration problem: a row-sum violation,
// a dimension mismatch, or an unknown/ambiguous process selector.
// Configuration errors are always fatal before any step is taken.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Reason)
}

func newConfigError(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

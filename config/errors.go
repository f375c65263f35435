package config

import (
	"fmt"
)

// This error type is returned when the mapping configuration is malformed or
// missing required tables. It is fatal: a run never starts with a bad
// configuration.
type InvalidConfigError struct {
	Section, Message string
}

func (e InvalidConfigError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("Invalid configuration (section '%s'): %s", e.Section, e.Message)
	}
	return fmt.Sprintf("Invalid configuration: %s", e.Message)
}

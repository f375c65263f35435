package config

import (
	"fmt"
)

// a type with batch-runner configuration parameters
type serviceConfig struct {
	// directory in which the run journal and emitted submissions are kept
	DataDirectory string `yaml:"data_directory"`
	// number of samples processed concurrently by a batch run
	Workers int `yaml:"workers"`
}

// This helper validates the given service parameters, returning an
// error indicating success or failure.
func validateServiceParameters(params serviceConfig) error {
	if params.Workers <= 0 {
		return &InvalidConfigError{
			Section: "service",
			Message: fmt.Sprintf("Invalid workers: %d (must be positive)", params.Workers),
		}
	}
	return nil
}

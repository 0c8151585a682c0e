package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *ValidationError
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig is matched by every *ConfigError
	ErrInvalidConfig = errors.New("invalid municipality configuration")

	// ErrMunicipalityNotFound is returned when a slug has no configuration
	ErrMunicipalityNotFound = errors.New("municipality not found")
)

// ValidationError reports a caller-supplied value the engine cannot work with
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigError reports a municipality configuration that breaks a legal limit
type ConfigError struct {
	Municipality string
	Message      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("municipality %q: %s", e.Municipality, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

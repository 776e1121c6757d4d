package utils

import "fmt"

// DataError represents a structural problem with an input series or event
// catalog: too short, malformed dates, non-monotonic ordering.
type DataError struct {
	Message string
}

// Error returns the error message string.
func (e *DataError) Error() string {
	return e.Message
}

// NewDataError creates a new DataError with a specific message.
func NewDataError(message string) error {
	return &DataError{Message: message}
}

// NewDataErrorf creates a new DataError with a formatted message.
func NewDataErrorf(format string, args ...interface{}) error {
	return &DataError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientDataError is reported when a series is too short for the
// requested computation.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d observations, got %d", e.Required, e.Actual)
}

// NewInsufficientDataError creates an InsufficientDataError for the given
// required and actual observation counts.
func NewInsufficientDataError(required, actual int) error {
	return &InsufficientDataError{Required: required, Actual: actual}
}

// ConfigurationError represents an invalid analysis configuration value,
// detected before any computation starts.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationErrorf creates a new ConfigurationError with a formatted message.
func NewConfigurationErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError represents an error occurring during request validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

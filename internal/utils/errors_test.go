package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataError(t *testing.T) {
	err := NewDataError("dates are not strictly increasing")
	assert.EqualError(t, err, "dates are not strictly increasing")

	var dataErr *DataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestDataErrorf(t *testing.T) {
	err := NewDataErrorf("observation %d has non-positive price %.2f", 7, -1.5)
	assert.EqualError(t, err, "observation 7 has non-positive price -1.50")
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError(30, 12)
	assert.EqualError(t, err, "insufficient data: need at least 30 observations, got 12")

	var insufficientErr *InsufficientDataError
	assert.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, 30, insufficientErr.Required)
	assert.Equal(t, 12, insufficientErr.Actual)
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationErrorf("n_bkps must be positive, got %d", -3)
	assert.EqualError(t, err, "n_bkps must be positive, got -3")

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("start_date must precede end_date")
	assert.EqualError(t, err, "start_date must precede end_date")

	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

package dataobj

import (
	"errors"
	"fmt"

	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/rules"
)

// Error kinds. Every failed fill matches exactly one of them with errors.Is.
var (
	// ErrNoMappingKeyFound: a one-of remap found no castable key and no
	// default applies.
	ErrNoMappingKeyFound = fault.ErrNoMappingKeyFound
	// ErrInvalidCast: null into a non-nullable field, an unmatched enum
	// value, an unparsable date or an invalid collection declaration.
	ErrInvalidCast = fault.ErrInvalidCast
	// ErrStrictnessFailed: a strict type is missing a required field.
	ErrStrictnessFailed = fault.ErrStrictnessFailed
	// ErrValidationFailed: the rule engine reported field errors.
	ErrValidationFailed = fault.ErrValidationFailed
	// ErrConfiguration: the type declaration itself is invalid.
	ErrConfiguration = fault.ErrConfiguration
)

// Error carries the offending type and field of a non-validation failure.
type Error = fault.Error

// ValidationError reports every failed rule of one fill.
type ValidationError struct {
	Type   string
	Issues rules.Issues
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidationFailed, e.Type, e.Issues.Error())
}

// Errors returns the messages per resolved input key.
func (e *ValidationError) Errors() map[string][]string { return e.Issues.ByKey() }

// Unwrap exposes ErrValidationFailed and the underlying Issues.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidationFailed, e.Issues}
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

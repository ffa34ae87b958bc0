package main

import "errors"

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates the input failed validation.
	ExitValidationError = 2
)

// errValidation is returned after the failures have been printed.
var errValidation = errors.New("validation failed")

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errValidation):
		return ExitValidationError
	default:
		return ExitGeneralError
	}
}

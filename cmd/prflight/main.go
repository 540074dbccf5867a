package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // All documents passed validation
	ExitValidationFailed = 1 // One or more rules reported violations
	ExitError            = 2 // Load, parse, or configuration error
)

// ValidationFailedError indicates that validation ran to completion,
// but one or more rules reported violations.
type ValidationFailedError struct {
	Message string
}

func (e *ValidationFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var validationErr *ValidationFailedError
		if errors.As(err, &validationErr) {
			os.Exit(ExitValidationFailed)
		}

		// All other errors are load/parse/configuration errors
		os.Exit(ExitError)
	}
}

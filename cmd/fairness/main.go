package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Analysis completed, nothing at or above the fail-on severity
	ExitBiasDetected = 1 // A violation reached the fail-on severity
	ExitError        = 2 // Configuration or runtime error
)

// BiasDetectedError indicates that the analysis ran successfully,
// but at least one violation reached the configured fail-on severity.
type BiasDetectedError struct {
	Message string
}

func (e *BiasDetectedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var biasErr *BiasDetectedError
		if errors.As(err, &biasErr) {
			os.Exit(ExitBiasDetected)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}

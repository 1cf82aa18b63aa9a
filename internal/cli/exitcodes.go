package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/litpp/pkg/runner"
)

// Exit codes for litpp.
const (
	// ExitSuccess indicates every document expanded.
	ExitSuccess = 0

	// ExitExpansionFailed indicates the run completed but some documents
	// failed, or check mode found stale outputs.
	ExitExpansionFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrExpansionFailed is returned when at least one document failed to expand.
var ErrExpansionFailed = errors.New("expansion failed")

// ErrOutputsStale is returned by check mode when an output is missing or
// differs from its expansion.
var ErrOutputsStale = errors.New("outputs out of date")

// ExitError attaches an exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err with an exit code. A nil err stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// usageErrorf reports invalid command-line usage.
func usageErrorf(format string, args ...any) error {
	return withCode(ExitInvalidUsage, fmt.Errorf(format, args...))
}

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitExpansionFailed
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrExpansionFailed) || errors.Is(err, ErrOutputsStale) {
		return ExitExpansionFailed
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

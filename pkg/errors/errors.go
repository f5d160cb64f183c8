// Package errors defines the error kinds of a glossary run and maps them to
// process exit codes.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInputPath = errors.New("invalid input path")
	ErrIO               = errors.New("i/o failure")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrBackend          = errors.New("glossary backend failure")
)

// Exit codes returned by the glossary command.
const (
	ExitOK     = 0
	ExitFatal  = 1
	ExitConfig = 2
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// IsFatal reports whether err must abort the run. An input path that is
// neither a file nor a directory is reported and skipped; everything else
// is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrInvalidInputPath)
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfig
	default:
		return ExitFatal
	}
}

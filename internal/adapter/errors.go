package adapter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrOutputLimit is wrapped by ExecutionError when stdout exceeds MaxOutputBytes.
var ErrOutputLimit = errors.New("cli output exceeded buffer limit")

// TimeoutError means the CLI process ran past its deadline and was terminated.
// Partial output is discarded.
type TimeoutError struct {
	Adapter string
	Timeout time.Duration
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

// ExecutionError covers every non-timeout failure: spawn errors, non-zero
// exits, oversized output. Error returns the underlying message unchanged;
// Stderr is kept for logging only.
type ExecutionError struct {
	Adapter  string
	Err      error
	Stderr   string
	ExitCode int
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// UnavailableError means the backing CLI did not answer its probe.
type UnavailableError struct {
	Adapter string
	Binary  string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s adapter unavailable: %q is not installed or did not answer the probe", e.Adapter, e.Binary)
}

// UnknownAdapterError is returned by New for kinds that have no implementation.
type UnknownAdapterError struct {
	Kind  string
	Known []string
}

func (e *UnknownAdapterError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown adapter kind %q", e.Kind)
	}
	return fmt.Sprintf("unknown adapter kind %q, must be one of: %s", e.Kind, strings.Join(e.Known, ", "))
}

// IsTimeout checks if an error is a TimeoutError.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// IsExecution checks if an error is an ExecutionError.
func IsExecution(err error) bool {
	var target *ExecutionError
	return errors.As(err, &target)
}

// IsUnavailable checks if an error is an UnavailableError.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// IsUnknownAdapter checks if an error is an UnknownAdapterError.
func IsUnknownAdapter(err error) bool {
	var target *UnknownAdapterError
	return errors.As(err, &target)
}

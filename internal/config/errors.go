package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError is returned when configuration cannot be read at all.
type ConfigError struct {
	Op  string // bind_flags, read or unmarshal
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FieldError describes one unusable configuration value.
type FieldError struct {
	Key     string
	Value   any
	Reason  string
	Allowed []string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Key, e.Reason)
	if e.Value != nil {
		msg = fmt.Sprintf("%s %q %s", e.Key, fmt.Sprint(e.Value), e.Reason)
	}
	if len(e.Allowed) > 0 {
		msg += ", must be one of: " + strings.Join(e.Allowed, ", ")
	}
	return msg
}

// ValidationError collects every FieldError found by Validate.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) add(key string, value any, reason string, allowed ...string) {
	e.Errors = append(e.Errors, &FieldError{Key: key, Value: value, Reason: reason, Allowed: allowed})
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		lines[i] = fe.Error()
	}
	return fmt.Sprintf("configuration validation failed with %d errors:\n  - %s",
		len(e.Errors), strings.Join(lines, "\n  - "))
}

// HasError reports whether key failed validation.
func (e *ValidationError) HasError(key string) bool {
	for _, fe := range e.Errors {
		if fe.Key == key {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

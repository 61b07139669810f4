package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with context, preserving its category.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// Precondition wraps a message as a precondition failure.
func Precondition(message string) error {
	return fmt.Errorf("%s: %w", message, ErrPrecondition)
}

// Busy wraps a message as a busy failure.
func Busy(message string) error {
	return fmt.Errorf("%s: %w", message, ErrBusy)
}

// Provider wraps a message as a provider failure.
func Provider(message string) error {
	return fmt.Errorf("%s: %w", message, ErrProvider)
}

// Exhausted wraps a message as an iteration-limit failure.
func Exhausted(message string) error {
	return fmt.Errorf("%s: %w", message, ErrExhausted)
}

// EmptyResult wraps a message as an empty-result failure.
func EmptyResult(message string) error {
	return fmt.Errorf("%s: %w", message, ErrEmptyResult)
}

// InvalidInput wraps a message as invalid input.
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// NotFound wraps a message as not found.
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// Internal wraps a message as an internal error.
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// Category returns the taxonomy label for an error, for telemetry and logs.
func Category(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrPrecondition):
		return "ErrPrecondition"
	case errors.Is(err, ErrBusy):
		return "ErrBusy"
	case errors.Is(err, ErrProvider):
		return "ErrProvider"
	case errors.Is(err, ErrExhausted):
		return "ErrExhausted"
	case errors.Is(err, ErrEmptyResult):
		return "ErrEmptyResult"
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	default:
		return "Unknown"
	}
}

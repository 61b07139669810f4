package errors

import (
	"errors"
)

// Sentinel errors for the failure taxonomy of an assistant action
var (
	// ErrPrecondition - a required input (selection, passage, API key) is missing; no network call is made
	ErrPrecondition = errors.New("precondition failed")

	// ErrBusy - another action or undo is already in flight
	ErrBusy = errors.New("assistant busy")

	// ErrProvider - the model backend failed (transport, auth, or backend error)
	ErrProvider = errors.New("provider error")

	// ErrExhausted - the conversation loop hit its iteration cap without a final answer
	ErrExhausted = errors.New("iteration limit reached")

	// ErrEmptyResult - the model answered but produced no usable text
	ErrEmptyResult = errors.New("empty result")

	// ErrInvalidInput - malformed arguments or validation failure
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - story or passage not found
	ErrNotFound = errors.New("not found")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)

package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoTypesetFunction is returned when a script defines no typeset function.
	ErrNoTypesetFunction = errors.New("script defines no typeset function")

	// ErrBadResult is returned when typeset returns something other than a string.
	ErrBadResult = errors.New("typeset must return a string")
)

// ScriptError is an error raised or returned by a script function.
type ScriptError struct {
	// Function is the script function that failed.
	Function string
	// Message is the script's error value.
	Message string
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua %s: %s", e.Function, e.Message)
}
